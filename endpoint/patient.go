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

const patientsAPIPath = "/api/v1/patients"

// patientServiceOrRespond builds the patient service over the request DB.
func patientServiceOrRespond(c *gin.Context) (*service.PatientService, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServiceUnavailable(c, "Database connection not available", errors.New("db is nil"))
		c.Abort()
		return nil, false
	}
	return service.NewPatientService(service.StoreFromRepository(repository.NewPatientRepository(db))), true
}

// patientIDOrRespond reads the numeric :id. Anything else is treated as an unknown path.
func patientIDOrRespond(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.CallErrorNotFound(c, "id", "patient not found")
		return 0, false
	}
	return id, true
}

func viewOrRespond(c *gin.Context) (model.View, bool) {
	view, err := model.ParseView(c.Query("view"))
	if err != nil {
		util.CallUserError(c, util.ErrorDetail{Field: "view", Message: "must be active or deleted"})
		return 0, false
	}
	return view, true
}

func bindOrRespond(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.FieldErrors(err)...)
		return false
	}
	return true
}

// respondServiceError maps a service failure onto the errors body. Failures
// without a business kind are reported as a generic client error.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(err, service.ErrNotFound):
			util.CallErrorNotFound(c, svcErr.Field, svcErr.Message)
			return
		case errors.Is(err, service.ErrConflict):
			util.CallConflict(c, svcErr.Field, svcErr.Message)
			return
		}
	}
	zap.L().Error("patient request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	_ = c.Error(err)
	util.CallUserError(c, util.ErrorDetail{Field: util.GenericErrorField, Message: "request could not be processed"})
}

// ListPatients godoc
// @Summary      List patients
// @Description  List active patients ordered by id, or deleted ones with view=deleted
// @Tags         Patient
// @Produce      json
// @Security     BasicAuth
// @Param        view query string false "active (default) or deleted"
// @Success      200 {array}  PatientResponse
// @Failure      400 {object} util.ErrorResponse "Invalid view"
// @Failure      401 {object} util.ErrorResponse "Unauthorized"
// @Router       /api/v1/patients [get]
func ListPatients(c *gin.Context) {
	view, ok := viewOrRespond(c)
	if !ok {
		return
	}
	svc, ok := patientServiceOrRespond(c)
	if !ok {
		return
	}

	var (
		patients []model.Patient
		err      error
	)
	if view == model.ViewDeleted {
		patients, err = svc.FindAllDeleted(c.Request.Context())
	} else {
		patients, err = svc.FindAll(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPatientResponses(patients))
}

// GetPatient godoc
// @Summary      Get patient
// @Description  Get an active patient by id, or a deleted one with view=deleted
// @Tags         Patient
// @Produce      json
// @Security     BasicAuth
// @Param        id   path  int    true  "Patient ID"
// @Param        view query string false "active (default) or deleted"
// @Success      200 {object} PatientResponse
// @Failure      404 {object} util.ErrorResponse "Patient not found"
// @Router       /api/v1/patients/{id} [get]
func GetPatient(c *gin.Context) {
	id, ok := patientIDOrRespond(c)
	if !ok {
		return
	}
	view, ok := viewOrRespond(c)
	if !ok {
		return
	}
	svc, ok := patientServiceOrRespond(c)
	if !ok {
		return
	}

	var (
		p   model.Patient
		err error
	)
	if view == model.ViewDeleted {
		p, err = svc.FindDeletedByID(c.Request.Context(), id)
	} else {
		p, err = svc.FindByID(c.Request.Context(), id)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPatientResponse(p))
}

// CreatePatient godoc
// @Summary      Create patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body PatientRequest true "Patient"
// @Success      201 {object} PatientResponse
// @Failure      400 {object} util.ErrorResponse "Invalid fields"
// @Failure      409 {object} util.ErrorResponse "Email already used"
// @Router       /api/v1/patients [post]
func CreatePatient(c *gin.Context) {
	var req PatientRequest
	if !bindOrRespond(c, &req) {
		return
	}
	svc, ok := patientServiceOrRespond(c)
	if !ok {
		return
	}

	p, err := svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", patientsAPIPath, p.ID))
	c.JSON(http.StatusCreated, toPatientResponse(p))
}

// UpdatePatient godoc
// @Summary      Update patient
// @Description  Validates the full record, then overwrites the active patient. A missing phone keeps the stored one.
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id      path int            true "Patient ID"
// @Param        request body PatientRequest true "Patient"
// @Success      200 {object} PatientResponse
// @Failure      400 {object} util.ErrorResponse "Invalid fields"
// @Failure      404 {object} util.ErrorResponse "Patient not found"
// @Failure      409 {object} util.ErrorResponse "Email already used"
// @Router       /api/v1/patients/{id} [put]
func UpdatePatient(c *gin.Context) {
	id, ok := patientIDOrRespond(c)
	if !ok {
		return
	}
	var req PatientRequest
	if !bindOrRespond(c, &req) {
		return
	}
	applyPatientUpdate(c, id, req.toUpdate())
}

// PatchPatient godoc
// @Summary      Partially update patient
// @Description  Only the supplied fields are changed
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id      path int                 true "Patient ID"
// @Param        request body PatientPatchRequest true "Fields to change"
// @Success      200 {object} PatientResponse
// @Failure      400 {object} util.ErrorResponse "Invalid fields"
// @Failure      404 {object} util.ErrorResponse "Patient not found"
// @Failure      409 {object} util.ErrorResponse "Email already used"
// @Router       /api/v1/patients/{id} [patch]
func PatchPatient(c *gin.Context) {
	id, ok := patientIDOrRespond(c)
	if !ok {
		return
	}
	var req PatientPatchRequest
	if !bindOrRespond(c, &req) {
		return
	}
	applyPatientUpdate(c, id, req.toUpdate())
}

func applyPatientUpdate(c *gin.Context, id uint64, u service.PatientUpdate) {
	svc, ok := patientServiceOrRespond(c)
	if !ok {
		return
	}
	p, err := svc.Update(c.Request.Context(), id, u)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPatientResponse(p))
}

// DeletePatient godoc
// @Summary      Delete patient
// @Description  Moves the patient to the deleted view. Unknown ids also return 204.
// @Tags         Patient
// @Security     BasicAuth
// @Param        id path int true "Patient ID"
// @Success      204 "Deleted"
// @Failure      404 {object} util.ErrorResponse "Non-numeric id"
// @Router       /api/v1/patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	id, ok := patientIDOrRespond(c)
	if !ok {
		return
	}
	svc, ok := patientServiceOrRespond(c)
	if !ok {
		return
	}

	if err := svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	username, _ := middleware.GetUsername(c)
	util.LogPatientDeleted(username, c.ClientIP(), id)
	c.Status(http.StatusNoContent)
}
