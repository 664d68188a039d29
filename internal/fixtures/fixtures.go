package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var holidaysYAML []byte

//go:embed seasonal.yaml
var seasonalYAML []byte

//go:embed staff.yaml
var staffYAML []byte

// ==========================================
// HOLIDAY TABLES
// ==========================================

// HolidayTables holds the static calendar reference data.
type HolidayTables struct {
	Fixed   map[string]string         `yaml:"fixed"`   // MM-DD -> name
	Dynamic map[int]map[string]string `yaml:"dynamic"` // year -> MM-DD -> name
}

// LoadHolidayTables parses the embedded holiday tables.
func LoadHolidayTables() (HolidayTables, error) {
	var tables HolidayTables
	if err := yaml.Unmarshal(holidaysYAML, &tables); err != nil {
		return HolidayTables{}, fmt.Errorf("failed to parse holiday tables: %w", err)
	}
	if tables.Fixed == nil {
		tables.Fixed = map[string]string{}
	}
	if tables.Dynamic == nil {
		tables.Dynamic = map[int]map[string]string{}
	}
	return tables, nil
}

// ==========================================
// SEASONAL CONTENT
// ==========================================

type GreetingRule struct {
	Date    string            `yaml:"date"`     // YYYY-MM-DD
	ByStaff map[string]string `yaml:"by_staff"` // staff id (or "*") -> greeting
}

type PromotionRule struct {
	StaffID       string `yaml:"staff_id"`
	Role          string `yaml:"role"`
	EffectiveFrom string `yaml:"effective_from"` // YYYY-MM-DD, inclusive
}

type Seasonal struct {
	Messages   map[string][]string `yaml:"messages"`
	Greetings  []GreetingRule      `yaml:"greetings"`
	Promotions []PromotionRule     `yaml:"promotions"`
}

// LoadSeasonal parses the embedded message pools and override tables.
func LoadSeasonal() (Seasonal, error) {
	var s Seasonal
	if err := yaml.Unmarshal(seasonalYAML, &s); err != nil {
		return Seasonal{}, fmt.Errorf("failed to parse seasonal content: %w", err)
	}
	return s, nil
}

// ==========================================
// DEFAULT STAFF
// ==========================================

type StaffSeed struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Birthday string `yaml:"birthday"`
}

// LoadDefaultStaff parses the embedded default staff list.
func LoadDefaultStaff() ([]StaffSeed, error) {
	var seeds []StaffSeed
	if err := yaml.Unmarshal(staffYAML, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse default staff: %w", err)
	}
	return seeds, nil
}
