package migration

import "strings"

// Lookup is the outcome of resolving a legacy reference. The zero value
// is Unresolved.
type Lookup struct {
	id       uint64
	resolved bool
}

// Resolved returns a Lookup that found id.
func Resolved(id uint64) Lookup { return Lookup{id: id, resolved: true} }

// Unresolved returns a Lookup that found nothing.
func Unresolved() Lookup { return Lookup{} }

// ID returns the resolved id and whether the lookup succeeded.
func (l Lookup) ID() (uint64, bool) { return l.id, l.resolved }

// IsResolved reports whether the lookup found a row.
func (l Lookup) IsResolved() bool { return l.resolved }

// OrZero collapses the lookup to the stored column value (0 = unassigned).
func (l Lookup) OrZero() uint64 { return l.Or(0) }

// Or returns the resolved id or fallback.
func (l Lookup) Or(fallback uint64) uint64 {
	if l.resolved {
		return l.id
	}
	return fallback
}

// LocationMap correlates legacy location ids with stored location ids.
type LocationMap map[int64]uint64

// Resolve looks up a legacy location id.
func (m LocationMap) Resolve(legacyID int64) Lookup {
	if id, ok := m[legacyID]; ok {
		return Resolved(id)
	}
	return Unresolved()
}

// Remap returns the stored id for legacyID, or legacyID itself when the
// mapping has no entry. Negative ids become 0.
func (m LocationMap) Remap(legacyID int64) uint64 {
	return m.Resolve(legacyID).Or(nonNegative(legacyID))
}

// TableMap indexes stored tables by location id and lowercase table number.
type TableMap map[uint64]map[string]uint64

// add records a table under its location, keeping the first id seen for a
// given number.
func (m TableMap) add(locationID uint64, number string, tableID uint64) {
	key := tableKey(number)
	if key == "" {
		return
	}
	byNumber, ok := m[locationID]
	if !ok {
		byNumber = make(map[string]uint64)
		m[locationID] = byNumber
	}
	if _, taken := byNumber[key]; !taken {
		byNumber[key] = tableID
	}
}

// Resolve finds a table by location and case-insensitive number.
func (m TableMap) Resolve(locationID uint64, number string) Lookup {
	if id, ok := m[locationID][tableKey(number)]; ok {
		return Resolved(id)
	}
	return Unresolved()
}

func tableKey(number string) string {
	return strings.ToLower(strings.TrimSpace(number))
}

// CustomerMap holds the three customer indexes. E-mail keys are
// lowercased.
type CustomerMap struct {
	ByID    map[int64]uint64
	ByEmail map[string]uint64
	ByPhone map[string]uint64
}

// NewCustomerMap returns an empty CustomerMap.
func NewCustomerMap() CustomerMap {
	return CustomerMap{
		ByID:    make(map[int64]uint64),
		ByEmail: make(map[string]uint64),
		ByPhone: make(map[string]uint64),
	}
}

// add indexes a stored customer. Existing entries are kept so the
// earliest customer wins.
func (m CustomerMap) add(key int64, id uint64, emailKey, phone string) {
	if _, ok := m.ByID[key]; !ok {
		m.ByID[key] = id
	}
	if emailKey != "" {
		if _, ok := m.ByEmail[emailKey]; !ok {
			m.ByEmail[emailKey] = id
		}
	}
	if phone != "" {
		if _, ok := m.ByPhone[phone]; !ok {
			m.ByPhone[phone] = id
		}
	}
}

// Resolve matches by e-mail first and phone second.
func (m CustomerMap) Resolve(emailKey, phone string) Lookup {
	if emailKey != "" {
		if id, ok := m.ByEmail[strings.ToLower(emailKey)]; ok {
			return Resolved(id)
		}
	}
	if phone != "" {
		if id, ok := m.ByPhone[phone]; ok {
			return Resolved(id)
		}
	}
	return Unresolved()
}

func nonNegative(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
