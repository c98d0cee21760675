package contact

// ContactRequest represents a contact form submission.
// Pointers distinguish a missing field from an empty one.
type ContactRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Subject *string `json:"subject,omitempty"`
	Message *string `json:"message"`
	Locale  *string `json:"locale,omitempty"`
	Confirm *bool   `json:"confirm,omitempty"`
}

// Submission is a validated contact form submission
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
	Confirm bool
}

// ToSubmission copies a validated request into a Submission.
func (r *ContactRequest) ToSubmission() Submission {
	return Submission{
		Name:    deref(r.Name),
		Email:   deref(r.Email),
		Subject: deref(r.Subject),
		Message: deref(r.Message),
		Confirm: r.Confirm != nil && *r.Confirm,
	}
}

// Fields returns the submission as template parameters.
func (s Submission) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"name":    s.Name,
		"email":   s.Email,
		"message": s.Message,
		"confirm": s.Confirm,
	}
	if s.Subject != "" {
		fields["subject"] = s.Subject
	}
	return fields
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
