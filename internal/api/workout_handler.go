package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Multipart form field carrying the certificate document.
const certificateFormField = "certificate"

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

// --- DTOs ---

// CertificateResponse exposes certificate metadata only; the bytes are
// served by the dedicated certificate endpoint.
type CertificateResponse struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type WorkoutResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Points      float64              `json:"points"`
	OwnerID     string               `json:"ownerId"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type WorkoutWithOwnerResponse struct {
	WorkoutResponse
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
}

// MapWorkoutToResponse converts a domain Workout to its DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:        w.ID.Hex(),
		Title:     w.Title,
		Points:    w.Points,
		OwnerID:   w.OwnerID.Hex(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	if w.Certificate != nil {
		resp.Certificate = &CertificateResponse{
			ContentType: w.Certificate.ContentType,
			FileName:    w.Certificate.FileName,
			Size:        w.Certificate.Size,
		}
	}
	return resp
}

// MapWorkoutsWithOwnerToResponse converts enriched list entries.
func MapWorkoutsWithOwnerToResponse(workouts []domain.WorkoutWithOwner) []WorkoutWithOwnerResponse {
	responses := make([]WorkoutWithOwnerResponse, len(workouts))
	for i, w := range workouts {
		responses[i] = WorkoutWithOwnerResponse{
			WorkoutResponse: MapWorkoutToResponse(&w.Workout),
			OwnerName:       w.OwnerName,
			OwnerEmail:      w.OwnerEmail,
		}
	}
	return responses
}

// --- Helpers ---

// callerFromContext resolves the authenticated caller's ID and admin flag.
func callerFromContext(c *gin.Context) (primitive.ObjectID, bool, error) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	callerID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return callerID, role == domain.RoleAdmin, nil
}

// incomingFileFromForm extracts the certificate file from the multipart
// form, if one was attached. Returns nil without error when absent.
func incomingFileFromForm(c *gin.Context) (*service.IncomingFile, error) {
	fileHeader, err := c.FormFile(certificateFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &service.IncomingFile{
		Data:        data,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, nil
}

// formFields collects the submitted form values (multipart or urlencoded),
// so the service can tell which fields the client actually supplied.
func formFields(c *gin.Context) map[string]string {
	fields := make(map[string]string)
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields
	}
	if err := c.Request.ParseForm(); err == nil {
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
	}
	return fields
}

// respondServiceError maps workout service errors to HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		body := gin.H{"error": ve.Error()}
		if len(ve.EmptyFields) > 0 {
			body["emptyFields"] = ve.EmptyFields
		}
		if len(ve.InvalidFields) > 0 {
			body["invalidFields"] = ve.InvalidFields
		}
		if len(ve.ImmutableFields) > 0 {
			body["immutableFields"] = ve.ImmutableFields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
		return
	}

	switch {
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrCertificateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidAttachmentFormat), errors.Is(err, service.ErrEmptyAttachment):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied), errors.Is(err, service.ErrReportAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List all workouts
// @Description Returns every workout, newest first, with owner name and email.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutWithOwnerResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsWithOwnerToResponse(workouts))
}

// GetWorkout godoc
// @Summary Get a single workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ObjectID Hex"
// @Success 200 {object} WorkoutResponse
// @Failure 404 {object} gin.H "No such workout"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workout, err := h.workoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GetWorkoutCertificate godoc
// @Summary Download a workout's certificate
// @Description Serves the raw certificate bytes with the stored content type.
// @Tags Workouts
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Workout ObjectID Hex"
// @Success 200 {file} binary
// @Failure 404 {object} gin.H "No such workout / no certificate"
// @Router /workouts/{id}/certificate [get]
func (h *WorkoutHandler) GetWorkoutCertificate(c *gin.Context) {
	cert, data, err := h.workoutService.GetCertificate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if cert.FileName != "" {
		// FormatMediaType quotes/escapes the filename, which may contain
		// arbitrary uploader-supplied characters.
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": cert.FileName}))
	}
	c.Data(http.StatusOK, cert.ContentType, data)
}

// CreateWorkout godoc
// @Summary Create a workout
// @Description Creates a workout from multipart form fields title, points and an optional certificate file.
// @Tags Workouts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Workout title"
// @Param points formData number true "Point value"
// @Param certificate formData file false "Certificate document (pdf/jpg/jpeg/png)"
// @Success 201 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Validation error (lists emptyFields) or bad attachment format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	file, err := incomingFileFromForm(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read certificate file: "+err.Error())
		return
	}

	workout, err := h.workoutService.Create(
		c.Request.Context(),
		callerID,
		c.PostForm("title"),
		c.PostForm("points"),
		file,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// UpdateWorkout godoc
// @Summary Update a workout
// @Description Applies a partial update; only title, points and certificate may change.
// @Tags Workouts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ObjectID Hex"
// @Param title formData string false "New title"
// @Param points formData number false "New point value"
// @Param certificate formData file false "Replacement certificate document"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Validation error or bad attachment format"
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "No such workout"
// @Router /workouts/{id} [patch]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	callerID, isAdmin, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	file, err := incomingFileFromForm(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read certificate file: "+err.Error())
		return
	}

	workout, err := h.workoutService.Update(
		c.Request.Context(),
		callerID,
		isAdmin,
		c.Param("id"),
		formFields(c),
		file,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Description Permanently removes a workout and releases its stored certificate bytes.
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout ObjectID Hex"
// @Success 200 {object} WorkoutResponse "The deleted workout"
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "No such workout"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	callerID, isAdmin, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workout, err := h.workoutService.Delete(c.Request.Context(), callerID, isAdmin, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}
