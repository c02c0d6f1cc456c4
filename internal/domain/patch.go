package domain

// BookingPatch is a partial update over a booking. A nil field means
// "leave as is". It is the single merge implementation shared by the
// server-side update path and the board's optimistic local patch, so the
// two can never disagree about what the patched booking looks like. The
// zone fields let a single update move a booking between zones.
type BookingPatch struct {
	ZoneID     *int64         `json:"zoneId,omitempty"`
	ZoneName   *string        `json:"zone,omitempty"`
	Time       *string        `json:"time,omitempty"`
	Name       *string        `json:"name,omitempty"`
	Guests     *int           `json:"guests,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	Status     *BookingStatus `json:"status,omitempty"`
	HappyHours *bool          `json:"happyHours,omitempty"`
	Comment    *string        `json:"comment,omitempty"`
	VR         *bool          `json:"vr,omitempty"`
	Hookah     *bool          `json:"hookah,omitempty"`
}

// Apply merges the patch over b and returns the result. Fields not present
// in the patch are preserved byte for byte.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.ZoneID != nil {
		b.ZoneID = *p.ZoneID
	}
	if p.ZoneName != nil {
		b.ZoneName = *p.ZoneName
	}
	if p.Time != nil {
		b.Time = *p.Time
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Guests != nil {
		b.Guests = *p.Guests
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.HappyHours != nil {
		b.HappyHours = *p.HappyHours
	}
	if p.Comment != nil {
		b.Comment = *p.Comment
	}
	if p.VR != nil {
		b.VR = *p.VR
	}
	if p.Hookah != nil {
		b.Hookah = *p.Hookah
	}
	return b
}

func (p BookingPatch) IsZero() bool {
	return p.ZoneID == nil && p.ZoneName == nil &&
		p.Time == nil && p.Name == nil && p.Guests == nil &&
		p.Phone == nil && p.Status == nil && p.HappyHours == nil &&
		p.Comment == nil && p.VR == nil && p.Hookah == nil
}
