package api

import (
	"net/http"
	"time"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// --- DTOs ---

type WorkoutDigestResponse struct {
	Title     string    `json:"title"`
	Points    float64   `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

type OwnerDetailsResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserPointsGroupResponse struct {
	OwnerID     string                  `json:"ownerId"`
	TotalPoints float64                 `json:"totalPoints"`
	Workouts    []WorkoutDigestResponse `json:"workouts"`
	User        OwnerDetailsResponse    `json:"user"`
}

// MapGroupsToResponse converts report rows to their DTOs.
func MapGroupsToResponse(groups []domain.UserPointsGroup) []UserPointsGroupResponse {
	responses := make([]UserPointsGroupResponse, len(groups))
	for i, g := range groups {
		digests := make([]WorkoutDigestResponse, len(g.Workouts))
		for j, w := range g.Workouts {
			digests[j] = WorkoutDigestResponse{
				Title:     w.Title,
				Points:    w.Points,
				CreatedAt: w.CreatedAt,
			}
		}
		responses[i] = UserPointsGroupResponse{
			OwnerID:     g.OwnerID.Hex(),
			TotalPoints: g.TotalPoints,
			Workouts:    digests,
			User: OwnerDetailsResponse{
				Name:  g.User.Name,
				Email: g.User.Email,
			},
		}
	}
	return responses
}

// GetAllWorkoutsForAdmin godoc
// @Summary Admin report of all workouts grouped by user
// @Description Groups every workout by owning user with per-user point totals. Administrators only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserPointsGroupResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an administrator)"
// @Failure 500 {object} gin.H "Aggregation failure"
// @Router /workouts/admin/all [get]
func (h *ReportHandler) GetAllWorkoutsForAdmin(c *gin.Context) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	groups, err := h.reportService.WorkoutsByUser(c.Request.Context(), role == domain.RoleAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapGroupsToResponse(groups))
}
