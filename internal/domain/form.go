package domain

// FormState is the state of the pool title form. Every transition returns a
// new value; a FormState is never mutated in place.
type FormState struct {
	Value      string `json:"value"`
	Touched    bool   `json:"touched"`
	Valid      bool   `json:"valid"`
	Submitting bool   `json:"submitting"`
	// Error holds a submission failure message, shown inline.
	Error string `json:"error,omitempty"`
}

// NewFormState returns the initial, untouched form state.
func NewFormState() FormState {
	return FormState{Valid: ValidateTitle("") == nil}
}

// ValidateTitle applies the required rule to a title value.
func ValidateTitle(value string) error {
	if value == "" {
		return ErrTitleRequired
	}
	return nil
}

// Change sets the field value and recomputes validity.
func (s FormState) Change(value string) FormState {
	s.Value = value
	s.Valid = ValidateTitle(value) == nil
	s.Error = ""
	return s
}

// Blur marks the field as touched.
func (s FormState) Blur() FormState {
	s.Touched = true
	s.Valid = ValidateTitle(s.Value) == nil
	return s
}

// CanSubmit reports whether the submit button is actionable.
func (s FormState) CanSubmit() bool {
	return s.Valid && !s.Submitting
}

// ShowError reports whether the inline required message is visible.
func (s FormState) ShowError() bool {
	return s.Touched && !s.Valid
}

// BeginSubmit moves the form into the submitting state. The returned bool is
// false, and the state unchanged, when the form cannot be submitted.
func (s FormState) BeginSubmit() (FormState, bool) {
	if !s.CanSubmit() {
		return s, false
	}
	s.Touched = true
	s.Submitting = true
	s.Error = ""
	return s, true
}

// EndSubmit leaves the submitting state.
func (s FormState) EndSubmit() FormState {
	s.Submitting = false
	return s
}

// Reset clears the field back to its initial value. The submitting flag is
// kept so a reset inside a submission does not re-enable the button early.
func (s FormState) Reset() FormState {
	submitting := s.Submitting
	s = NewFormState()
	s.Submitting = submitting
	return s
}

// Fail records a submission failure message.
func (s FormState) Fail(message string) FormState {
	s.Error = message
	return s
}
