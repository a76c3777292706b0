package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

const MinGraduationYear = 1900

// ProfilePatch carries the user editable profile fields. A nil field is left
// untouched by Apply; a field set to an empty string is cleared. The
// graduation year is cleared by 0 or by an explicit JSON null.
type ProfilePatch struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	GraduationYear *int    `json:"graduationYear,omitempty"`
	Degree         *string `json:"degree,omitempty"`
	Department     *string `json:"department,omitempty"`
	CurrentJob     *string `json:"currentJob,omitempty"`
	Company        *string `json:"company,omitempty"`
	Location       *string `json:"location,omitempty"`
	LinkedinURL    *string `json:"linkedinUrl,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`

	clearGraduationYear bool
}

func (p *ProfilePatch) UnmarshalJSON(data []byte) error {
	type plain ProfilePatch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = ProfilePatch(v)
	if raw, ok := fields["graduationYear"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		p.clearGraduationYear = true
	}
	return nil
}

// Validate checks field formats. The graduation year must fall within
// [MinGraduationYear, current year]; zero means "not provided".
func (p *ProfilePatch) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Length(0, 200)),
		validation.Field(&p.Phone, validation.Length(0, 40)),
		validation.Field(&p.GraduationYear, validation.Min(MinGraduationYear), validation.Max(time.Now().Year())),
		validation.Field(&p.Degree, validation.Length(0, 200)),
		validation.Field(&p.Department, validation.Length(0, 200)),
		validation.Field(&p.CurrentJob, validation.Length(0, 200)),
		validation.Field(&p.Company, validation.Length(0, 200)),
		validation.Field(&p.Location, validation.Length(0, 200)),
		validation.Field(&p.LinkedinURL, is.URL, validation.Length(0, 500)),
		validation.Field(&p.Bio, validation.Length(0, 2000)),
		validation.Field(&p.ProfilePicture, validation.Length(0, 1000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// NormalizePhone rewrites the phone number in E.164 form when it parses as a
// valid number for region. Anything else is kept as typed.
func (p *ProfilePatch) NormalizePhone(region string) {
	if p.Phone == nil {
		return
	}
	raw := strings.TrimSpace(*p.Phone)
	if raw == "" {
		return
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return
	}
	formatted := phonenumbers.Format(num, phonenumbers.E164)
	p.Phone = &formatted
}

// Apply writes every provided field onto profile.
func (p *ProfilePatch) Apply(profile *Profile) {
	applyString(&profile.Name, p.Name)
	applyString(&profile.Phone, p.Phone)
	applyString(&profile.Degree, p.Degree)
	applyString(&profile.Department, p.Department)
	applyString(&profile.CurrentJob, p.CurrentJob)
	applyString(&profile.Company, p.Company)
	applyString(&profile.Location, p.Location)
	applyString(&profile.LinkedinURL, p.LinkedinURL)
	applyString(&profile.Bio, p.Bio)
	applyString(&profile.ProfilePicture, p.ProfilePicture)

	switch {
	case p.clearGraduationYear:
		profile.GraduationYear = nil
	case p.GraduationYear != nil:
		if *p.GraduationYear == 0 {
			profile.GraduationYear = nil
		} else {
			year := *p.GraduationYear
			profile.GraduationYear = &year
		}
	}
}

func applyString(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

// NewProfileInput is the administrative direct-create payload.
type NewProfileInput struct {
	Email string `json:"email"`
	ProfilePatch
}

// UnmarshalJSON keeps the embedded patch decoder from swallowing Email.
func (in *NewProfileInput) UnmarshalJSON(data []byte) error {
	var head struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := in.ProfilePatch.UnmarshalJSON(data); err != nil {
		return err
	}
	in.Email = head.Email
	return nil
}

func (in *NewProfileInput) Validate() error {
	if err := validation.ValidateStruct(in,
		validation.Field(&in.Email, validation.Required, is.Email),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return in.ProfilePatch.Validate()
}
