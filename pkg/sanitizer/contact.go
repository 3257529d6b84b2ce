package sanitizer

import "swapstay/pkg/model"

// SanitizeContact returns a normalized copy of c, or nil when nothing is left.
// A phone that cannot be parsed is kept trimmed so validation can report it.
func SanitizeContact(c *model.ContactInfo) *model.ContactInfo {
	if c == nil {
		return nil
	}

	out := &model.ContactInfo{
		Name:  NormalizeName(c.Name),
		Email: NormalizeEmail(c.Email),
	}
	if phone := NormalizePhone(c.Phone); phone != "" {
		out.Phone = phone
	} else {
		out.Phone = TrimAndNormalize(c.Phone)
	}

	if out.IsEmpty() {
		return nil
	}
	return out
}
