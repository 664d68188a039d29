package staff

import "errors"

var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrStaffIDExists   = errors.New("staff id already exists")
	ErrInvalidBirthday = errors.New("birthday must be in DD/MM/YYYY format")
)
