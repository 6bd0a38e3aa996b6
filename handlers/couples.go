package handlers

import (
	"net/http"

	"duet/models"
	couplesService "duet/services/couples"
	"duet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CoupleHandler exposes invitation and partner endpoints.
type CoupleHandler struct {
	CouplesService couplesService.CouplesService
}

// CreateInvitationHandler handles POST /couples/invite.
func (h *CoupleHandler) CreateInvitationHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.InvitationCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	inv, err := h.CouplesService.CreateInvitation(userID, req.InviteeEmail)
	if err != nil {
		logger.Warn("Invitation rejected", zap.String("inviter", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// AcceptInvitationHandler handles POST /couples/accept.
func (h *CoupleHandler) AcceptInvitationHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	couple, err := h.CouplesService.AcceptInvitation(req.Token, userID)
	if err != nil {
		logger.Warn("Invitation acceptance rejected", zap.String("accepter", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, couple)
}

// GetPartnerHandler handles GET /couples/partner.
func (h *CoupleHandler) GetPartnerHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	partner, err := h.CouplesService.GetPartner(userID)
	if err != nil {
		logger.Error("Partner lookup failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if partner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not in a couple yet"})
		return
	}
	c.JSON(http.StatusOK, partner)
}
