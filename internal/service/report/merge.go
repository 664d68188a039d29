package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
)

type signature struct {
	staffID string
	kind    checkin.AttendanceType
	date    string
}

func signatureOf(r checkin.Record, loc *time.Location) signature {
	return signature{staffID: staff.NormalizeID(r.StaffID), kind: r.Type, date: r.CalendarDate(loc)}
}

// MergeRemoteAndLocal combines the remote sheet with the local store. A local record
// is paired with one remote record sharing its (staff id, type, calendar date)
// signature, preferring the remote copy with the same id; the local copy wins
// only when its image payload is strictly larger. Records are never collapsed
// against others from the same side. The result is newest first.
func MergeRemoteAndLocal(remote, local []checkin.Record, loc *time.Location) []checkin.Record {
	out := make([]checkin.Record, 0, len(remote)+len(local))
	open := make(map[signature][]int, len(remote))

	for _, r := range remote {
		r.Synced = true
		key := signatureOf(r, loc)
		open[key] = append(open[key], len(out))
		out = append(out, r)
	}

	take := func(key signature, pick int) int {
		candidates := open[key]
		idx := candidates[pick]
		open[key] = append(candidates[:pick:pick], candidates[pick+1:]...)
		return idx
	}
	resolve := func(idx int, l checkin.Record) {
		if len(l.ImageRef) > len(out[idx].ImageRef) {
			out[idx] = l
		}
	}

	// pair synced copies by id first, then whatever shares the signature
	var unpaired []checkin.Record
	for _, l := range local {
		key := signatureOf(l, loc)
		pick := -1
		for i, idx := range open[key] {
			if out[idx].ID == l.ID {
				pick = i
				break
			}
		}
		if pick < 0 {
			unpaired = append(unpaired, l)
			continue
		}
		resolve(take(key, pick), l)
	}

	for _, l := range unpaired {
		key := signatureOf(l, loc)
		if len(open[key]) == 0 {
			out = append(out, l)
			continue
		}
		resolve(take(key, 0), l)
	}

	sortNewestFirst(out)
	return out
}

func sortNewestFirst(records []checkin.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
}
