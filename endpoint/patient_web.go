package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/middleware"
	"github.com/nadvoretskiy13/attestation03/model"
	"github.com/nadvoretskiy13/attestation03/repository"
	"github.com/nadvoretskiy13/attestation03/service"
	"github.com/nadvoretskiy13/attestation03/util"
	"go.uber.org/zap"
)

// patientFormView is what patient_form.html renders.
type patientFormView struct {
	FirstName string
	LastName  string
	Passport  string
	Phone     string
	BirthDate string
	Email     string
}

func formViewFromRequest(r PatientRequest) patientFormView {
	v := patientFormView{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Passport:  r.Passport,
		BirthDate: r.BirthDate,
		Email:     r.Email,
	}
	if r.Phone != nil {
		v.Phone = *r.Phone
	}
	return v
}

func formViewFromPatient(p model.Patient) patientFormView {
	resp := toPatientResponse(p)
	return patientFormView{
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Passport:  resp.Passport,
		Phone:     resp.Phone,
		BirthDate: resp.BirthDate,
		Email:     resp.Email,
	}
}

// page adds the values every page needs to data.
func page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if username, ok := middleware.GetUsername(c); ok {
		data["Username"] = username
	}
	return data
}

func renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "404.html", page(c, "Not found", gin.H{"Message": message}))
}

func renderServerError(c *gin.Context, err error) {
	zap.L().Error("web request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "404.html", page(c, "Error", gin.H{"Message": "Something went wrong. Please try again."}))
}

func renderPatientForm(c *gin.Context, status int, title, action string, form patientFormView, errs map[string]string) {
	c.HTML(status, "patient_form.html", page(c, title, gin.H{
		"Action": action,
		"Form":   form,
		"Errors": errs,
	}))
}

func webPatientService(c *gin.Context) (*service.PatientService, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		renderServerError(c, errors.New("db is nil"))
		return nil, false
	}
	return service.NewPatientService(service.StoreFromRepository(repository.NewPatientRepository(db))), true
}

func webPatientID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		renderNotFound(c, "Page not found")
		return 0, false
	}
	return id, true
}

// PatientsPage lists active patients, or deleted ones with ?view=deleted.
func PatientsPage(c *gin.Context) {
	view, err := model.ParseView(c.Query("view"))
	if err != nil {
		view = model.ViewActive
	}
	svc, ok := webPatientService(c)
	if !ok {
		return
	}

	var patients []model.Patient
	if view == model.ViewDeleted {
		patients, err = svc.FindAllDeleted(c.Request.Context())
	} else {
		patients, err = svc.FindAll(c.Request.Context())
	}
	if err != nil {
		renderServerError(c, err)
		return
	}

	title := "Patients"
	if view == model.ViewDeleted {
		title = "Deleted patients"
	}
	c.HTML(http.StatusOK, "patients.html", page(c, title, gin.H{
		"Patients": toPatientResponses(patients),
		"Deleted":  view == model.ViewDeleted,
	}))
}

func AddPatientPage(c *gin.Context) {
	renderPatientForm(c, http.StatusOK, "Add patient", "/patients/add", patientFormView{}, nil)
}

func AddPatientSubmit(c *gin.Context) {
	const title, action = "Add patient", "/patients/add"

	var req PatientRequest
	if err := c.ShouldBind(&req); err != nil {
		renderPatientForm(c, http.StatusOK, title, action, formViewFromRequest(req), util.FieldErrorMap(util.FieldErrors(err)))
		return
	}
	svc, ok := webPatientService(c)
	if !ok {
		return
	}

	if _, err := svc.Create(c.Request.Context(), req.toInput()); err != nil {
		if errs, handled := formErrors(err); handled {
			renderPatientForm(c, http.StatusOK, title, action, formViewFromRequest(req), errs)
			return
		}
		renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/patients")
}

func EditPatientPage(c *gin.Context) {
	id, ok := webPatientID(c)
	if !ok {
		return
	}
	svc, ok := webPatientService(c)
	if !ok {
		return
	}

	p, err := svc.FindByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		renderNotFound(c, "Patient not found")
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}
	renderPatientForm(c, http.StatusOK, "Edit patient", editAction(id), formViewFromPatient(p), nil)
}

func EditPatientSubmit(c *gin.Context) {
	id, ok := webPatientID(c)
	if !ok {
		return
	}
	const title = "Edit patient"
	action := editAction(id)

	var req PatientRequest
	if err := c.ShouldBind(&req); err != nil {
		renderPatientForm(c, http.StatusOK, title, action, formViewFromRequest(req), util.FieldErrorMap(util.FieldErrors(err)))
		return
	}
	svc, ok := webPatientService(c)
	if !ok {
		return
	}

	_, err := svc.Update(c.Request.Context(), id, req.toUpdate())
	if errors.Is(err, service.ErrNotFound) {
		renderNotFound(c, "Patient not found")
		return
	}
	if err != nil {
		if errs, handled := formErrors(err); handled {
			renderPatientForm(c, http.StatusOK, title, action, formViewFromRequest(req), errs)
			return
		}
		renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/patients")
}

func DeletePatientSubmit(c *gin.Context) {
	id, ok := webPatientID(c)
	if !ok {
		return
	}
	svc, ok := webPatientService(c)
	if !ok {
		return
	}

	if err := svc.Delete(c.Request.Context(), id); err != nil {
		renderServerError(c, err)
		return
	}
	username, _ := middleware.GetUsername(c)
	util.LogPatientDeleted(username, c.ClientIP(), id)
	c.Redirect(http.StatusFound, "/patients")
}

func editAction(id uint64) string {
	return fmt.Sprintf("/patients/%d/edit", id)
}

// formErrors turns a conflict into an inline field error.
func formErrors(err error) (map[string]string, bool) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) && errors.Is(err, service.ErrConflict) {
		return map[string]string{svcErr.Field: svcErr.Message}, true
	}
	return nil, false
}
