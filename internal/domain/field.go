package domain

import (
	"fmt"
	"slices"
	"time"
)

// Patch is a set of field values to write to one entity.
type Patch map[Field]any

// Fields returns the patch's fields in canonical order.
func (p Patch) Fields() []Field {
	var out []Field
	for _, f := range AllFields {
		if _, ok := p[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Get returns a copy of the field value. Slices and date pointers are cloned
// so callers can hold the value across later in-place patches.
func (e *Entity) Get(f Field) any {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldStartDate:
		return cloneTime(e.StartDate)
	case FieldEndDate:
		return cloneTime(e.EndDate)
	case FieldStatus:
		return e.Status
	case FieldOwner:
		return e.Owner
	case FieldClient:
		return e.Client
	case FieldProgress:
		return e.Progress
	case FieldTags:
		return slices.Clone(e.Tags)
	case FieldSubItems:
		return slices.Clone(e.SubItems)
	case FieldSortOrder:
		return e.SortOrder
	case FieldUpdatedAt:
		return e.UpdatedAt
	}
	return nil
}

// Set assigns a validated value to f. On error the entity is unchanged.
func (e *Entity) Set(f Field, v any) error {
	prev := e.Get(f)
	if err := e.assign(f, v); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		_ = e.assign(f, prev)
		return fmt.Errorf("setting %s: %w", f, err)
	}
	return nil
}

// Apply sets every field of p, stopping at the first invalid value.
func (e *Entity) Apply(p Patch) error {
	for _, f := range p.Fields() {
		if err := e.Set(f, p[f]); err != nil {
			return err
		}
	}
	return nil
}

// CopyFields patches dst in place with src's values for fields. Values come
// from a trusted record so range invariants are not re-checked here.
func CopyFields(dst, src *Entity, fields []Field) {
	for _, f := range fields {
		_ = dst.assign(f, src.Get(f))
	}
}

// Restore assigns v to f without checking cross-field invariants. It is used
// to put back a value the entity held before, or one the remote store holds.
func (e *Entity) Restore(f Field, v any) error {
	return e.assign(f, v)
}

// Diff returns the fields whose values differ between a and b, comparing
// sub-items element-wise and tags as sets.
func Diff(a, b *Entity) []Field {
	var out []Field
	for _, f := range AllFields {
		if !fieldEqual(f, a, b) {
			out = append(out, f)
		}
	}
	return out
}

// ValuesEqual compares two values of field f with the same rules as Diff.
func ValuesEqual(f Field, x, y any) bool {
	var a, b Entity
	if a.assign(f, x) != nil || b.assign(f, y) != nil {
		return false
	}
	return fieldEqual(f, &a, &b)
}

func fieldEqual(f Field, a, b *Entity) bool {
	switch f {
	case FieldTitle:
		return a.Title == b.Title
	case FieldStartDate:
		return timePtrEqual(a.StartDate, b.StartDate)
	case FieldEndDate:
		return timePtrEqual(a.EndDate, b.EndDate)
	case FieldStatus:
		return a.Status == b.Status
	case FieldOwner:
		return a.Owner == b.Owner
	case FieldClient:
		return a.Client == b.Client
	case FieldProgress:
		return a.Progress == b.Progress
	case FieldTags:
		return slices.Equal(NormalizeTags(a.Tags), NormalizeTags(b.Tags))
	case FieldSubItems:
		return slices.Equal(a.SubItems, b.SubItems)
	case FieldSortOrder:
		return a.SortOrder == b.SortOrder
	case FieldUpdatedAt:
		return a.UpdatedAt.Equal(b.UpdatedAt)
	}
	return true
}

func (e *Entity) assign(f Field, v any) error {
	switch f {
	case FieldTitle:
		s, ok := v.(string)
		if !ok {
			return typeError(f, v)
		}
		e.Title = s
	case FieldStartDate, FieldEndDate:
		t, err := toDate(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		if f == FieldStartDate {
			e.StartDate = t
		} else {
			e.EndDate = t
		}
	case FieldStatus:
		switch s := v.(type) {
		case Status:
			e.Status = s
		case string:
			e.Status = ParseStatus(s)
		default:
			return typeError(f, v)
		}
	case FieldOwner:
		o, ok := v.(Owner)
		if !ok {
			return typeError(f, v)
		}
		e.Owner = o
	case FieldClient:
		s, ok := v.(string)
		if !ok {
			return typeError(f, v)
		}
		e.Client = s
	case FieldProgress:
		switch p := v.(type) {
		case float64:
			e.Progress = p
		case int:
			e.Progress = float64(p)
		default:
			return typeError(f, v)
		}
	case FieldTags:
		t, ok := v.([]string)
		if !ok {
			return typeError(f, v)
		}
		e.Tags = NormalizeTags(t)
	case FieldSubItems:
		s, ok := v.([]SubItem)
		if !ok {
			return typeError(f, v)
		}
		e.SubItems = slices.Clone(s)
	case FieldSortOrder:
		n, ok := v.(int)
		if !ok {
			return typeError(f, v)
		}
		e.SortOrder = n
	case FieldUpdatedAt:
		t, ok := v.(time.Time)
		if !ok {
			return typeError(f, v)
		}
		e.UpdatedAt = t
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, f)
	}
	return nil
}

func toDate(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		d := DateOnly(*t)
		return &d, nil
	case time.Time:
		d := DateOnly(t)
		return &d, nil
	case string:
		return ParseOptionalDate(t)
	}
	return nil, fmt.Errorf("%w: unsupported date value %T", ErrInvalidField, v)
}

func typeError(f Field, v any) error {
	return fmt.Errorf("%w: %s does not accept %T", ErrInvalidField, f, v)
}
