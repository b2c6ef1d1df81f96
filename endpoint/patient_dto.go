package endpoint

import (
	"strings"
	"time"

	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/service"
	"github.com/nadvoretskiy13/attestation03/util"
)

// PatientRequest is the body of POST and PUT /api/v1/patients. A missing phone
// on PUT keeps the stored value.
type PatientRequest struct {
	FirstName string  `json:"firstName" form:"firstName" binding:"notblank,max=255" example:"John"`
	LastName  string  `json:"lastName" form:"lastName" binding:"notblank,max=255" example:"Doe"`
	Passport  string  `json:"passport" form:"passport" binding:"notblank,max=255" example:"12345"`
	Phone     *string `json:"phone" form:"phone" binding:"omitempty,max=64" example:"+1 555 0100"`
	BirthDate string  `json:"birthDate" form:"birthDate" binding:"notblank,pastdate" example:"1980-01-01"`
	Email     string  `json:"email" form:"email" binding:"notblank,reception_email,max=191" example:"johndoe@example.com"`
}

// PatientPatchRequest is the body of PATCH /api/v1/patients/{id}. Every field
// is optional; supplied fields follow the same rules as PatientRequest.
type PatientPatchRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,notblank,max=255"`
	LastName  *string `json:"lastName" binding:"omitempty,notblank,max=255"`
	Passport  *string `json:"passport" binding:"omitempty,notblank,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=64"`
	BirthDate *string `json:"birthDate" binding:"omitempty,pastdate"`
	Email     *string `json:"email" binding:"omitempty,reception_email,max=191"`
}

// PatientResponse is the JSON form of a patient.
type PatientResponse struct {
	ID        uint64 `json:"id" example:"1"`
	FirstName string `json:"firstName" example:"John"`
	LastName  string `json:"lastName" example:"Doe"`
	Passport  string `json:"passport" example:"12345"`
	Phone     string `json:"phone" example:"+1 555 0100"`
	BirthDate string `json:"birthDate" example:"1980-01-01"`
	Email     string `json:"email" example:"johndoe@example.com"`
	Deleted   bool   `json:"deleted" example:"false"`
}

func toPatientResponse(p model.Patient) PatientResponse {
	return PatientResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Passport:  p.Passport,
		Phone:     p.Phone,
		BirthDate: p.BirthDate.Format(model.DateLayout),
		Email:     p.Email,
		Deleted:   p.Deleted,
	}
}

func toPatientResponses(patients []model.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientResponse(p))
	}
	return out
}

// parseBirthDate is only called after binding validated the layout.
func parseBirthDate(s string) time.Time {
	d, _ := time.Parse(model.DateLayout, strings.TrimSpace(s))
	return d
}

func (r PatientRequest) toInput() service.PatientInput {
	in := service.PatientInput{
		FirstName: util.NormalizeName(r.FirstName),
		LastName:  util.NormalizeName(r.LastName),
		Passport:  strings.TrimSpace(r.Passport),
		BirthDate: parseBirthDate(r.BirthDate),
		Email:     strings.TrimSpace(r.Email),
	}
	if r.Phone != nil {
		in.Phone = strings.TrimSpace(*r.Phone)
	}
	return in
}

func (r PatientRequest) toUpdate() service.PatientUpdate {
	in := r.toInput()
	u := service.PatientUpdate{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		Passport:  &in.Passport,
		BirthDate: &in.BirthDate,
		Email:     &in.Email,
	}
	if r.Phone != nil {
		u.Phone = &in.Phone
	}
	return u
}

func (r PatientPatchRequest) toUpdate() service.PatientUpdate {
	u := service.PatientUpdate{
		FirstName: normalizedName(r.FirstName),
		LastName:  normalizedName(r.LastName),
		Passport:  trimmed(r.Passport),
		Phone:     trimmed(r.Phone),
		Email:     trimmed(r.Email),
	}
	if r.BirthDate != nil {
		d := parseBirthDate(*r.BirthDate)
		u.BirthDate = &d
	}
	return u
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func normalizedName(s *string) *string {
	if s == nil {
		return nil
	}
	v := util.NormalizeName(*s)
	return &v
}
