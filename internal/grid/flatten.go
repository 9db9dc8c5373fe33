package grid

// Entry is one booking of a committed day plan.
type Entry struct {
	TimeSlot      string `json:"time_slot"`
	SlotIndex     int    `json:"slot_index"`
	TaskID        string `json:"task_id"`
	TaskName      string `json:"task_name"`
	DurationSlots int    `json:"duration_slots"`
	Area          string `json:"area"`
}

// Flatten lists every booking ordered by ascending slot, keeping list order within a slot.
func (s Schedule) Flatten() []Entry {
	entries := make([]Entry, 0, s.Len())
	for _, slot := range s.Slots() {
		for _, b := range s[slot] {
			entries = append(entries, Entry{
				TimeSlot:      TimeLabel(slot),
				SlotIndex:     slot,
				TaskID:        b.Task.ID,
				TaskName:      b.Task.Name,
				DurationSlots: b.Duration,
				Area:          b.Task.Category,
			})
		}
	}
	return entries
}
