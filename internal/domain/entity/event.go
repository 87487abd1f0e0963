package entity

// State is a PreferenceSet together with the light/dark mode it renders as.
type State struct {
	PreferenceSet
	Effective Mode
}

// Value returns the string form of f, including the derived effective mode.
func (s State) Value(f Field) string {
	if f == FieldEffectiveMode {
		return string(s.Effective)
	}
	return s.PreferenceSet.Value(f)
}

// ChangeEvent reports one field that changed value. Old and New are complete
// snapshots taken before and after the update that caused it.
type ChangeEvent struct {
	Field Field
	Old   State
	New   State
}

// OldValue returns the previous value of the changed field.
func (e ChangeEvent) OldValue() string {
	return e.Old.Value(e.Field)
}

// NewValue returns the current value of the changed field.
func (e ChangeEvent) NewValue() string {
	return e.New.Value(e.Field)
}
