package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ul8ziz/Integrated-Data-Protection-System/internal/store"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/crypto"
	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error().Err(err).Msg("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

func (s *Server) handleLogout(c *gin.Context) {
	claims := claimsFrom(c)
	if claims != nil {
		s.auth.RevokeToken(claims.ID)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

type analyzeRequest struct {
	Text        string `json:"text" binding:"required"`
	Language    string `json:"language"`
	SourceIP    string `json:"source_ip"`
	Destination string `json:"destination"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	language := req.Language
	if language == "" {
		language = "en"
	}

	ctx := c.Request.Context()
	active, err := s.policies.ActivePolicies(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("loading active policies failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "policy lookup failed"})
		return
	}

	result, err := s.engine.ApplyPolicies(ctx, req.Text, active, language)
	if err != nil {
		s.logger.Error().Err(err).Msg("analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	s.recordOutcome(c, req, result)
	c.JSON(http.StatusOK, result)
}

// recordOutcome performs the side effects the engine leaves to its caller:
// alert persistence, audit logging, and the external block call.
func (s *Server) recordOutcome(c *gin.Context, req analyzeRequest, result *types.EngineResult) {
	ctx := c.Request.Context()

	var user string
	if claims := claimsFrom(c); claims != nil {
		user = claims.Username
	}

	if !result.PoliciesMatched {
		if result.Detected {
			if err := s.logs.AppendLog(ctx, types.LogRecord{
				EventType:  "no_policy_match",
				Message:    "entities detected, no policy matched",
				Level:      "info",
				SourceIP:   req.SourceIP,
				SourceUser: user,
				Extra: map[string]any{
					"request_id":   result.RequestID,
					"text_hash":    crypto.HashText(req.Text),
					"entity_count": len(result.Entities),
				},
			}); err != nil {
				s.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("audit log append failed")
			}
		}
		return
	}

	names := make([]string, 0, len(result.AppliedPolicies))
	for _, ap := range result.AppliedPolicies {
		names = append(names, ap.Name)
	}
	reason := "matched policies: " + strings.Join(names, ", ")

	if result.AlertRequired {
		alert := types.Alert{
			Title:            "Sensitive data detected",
			Description:      reason,
			Severity:         types.HighestSeverity(result.AppliedPolicies),
			SourceIP:         req.SourceIP,
			SourceUser:       user,
			DetectedEntities: s.engine.SealDetections(result.Entities),
			PolicyID:         result.AppliedPolicies[0].PolicyID,
			ActionTaken:      result.AppliedPolicies[0].Action,
			Blocked:          result.Blocked,
		}
		if _, err := s.alerts.CreateAlert(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("alert creation failed")
		}
	}

	if err := s.logs.AppendLog(ctx, types.LogRecord{
		EventType:  "text_analysis",
		Message:    reason,
		Level:      "warn",
		SourceIP:   req.SourceIP,
		SourceUser: user,
		Extra: map[string]any{
			"request_id": result.RequestID,
			"text_hash":  crypto.HashText(req.Text),
			"blocked":    result.Blocked,
		},
	}); err != nil {
		s.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("audit log append failed")
	}

	if result.Blocked && req.SourceIP != "" {
		if _, err := s.blocker.BlockTransfer(ctx, req.SourceIP, req.Destination, result.Entities, reason); err != nil {
			s.logger.Error().Err(err).Str("request_id", result.RequestID).Msg("transfer block failed")
		}
	}
}

func (s *Server) handleSupportedEntities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": s.engine.SupportedEntities()})
}

func (s *Server) handleListPolicies(c *gin.Context) {
	rules, err := s.policies.ListPolicies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "policy lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"policies": rules})
}

func (s *Server) handleGetPolicy(c *gin.Context) {
	rule, err := s.policies.GetPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "policy not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "policy lookup failed"})
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) handleCreatePolicy(c *gin.Context) {
	var rule types.PolicyRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid policy body"})
		return
	}
	if claims := claimsFrom(c); claims != nil {
		rule.CreatedBy = claims.Username
	}

	created, err := s.policies.CreatePolicy(c.Request.Context(), rule)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdatePolicy(c *gin.Context) {
	var rule types.PolicyRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid policy body"})
		return
	}
	rule.ID = c.Param("id")

	updated, err := s.policies.UpdatePolicy(c.Request.Context(), rule)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "policy not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeletePolicy(c *gin.Context) {
	if err := s.policies.DeletePolicy(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "policy not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "policy delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleListAlerts(c *gin.Context) {
	alerts, err := s.alerts.ListAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

func (s *Server) handleListLogs(c *gin.Context) {
	records, err := s.logs.ListLogs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "log lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": records})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	status := gin.H{
		"status": "ok",
	}
	if s.recognizer != nil {
		status["recognizer_healthy"] = s.recognizer.Healthy(c.Request.Context())
	}
	if s.blockerInfo != nil {
		status["blocker_enabled"] = s.blockerInfo.Enabled()
	}
	if s.monitor != nil {
		stats := s.monitor.LastStats()
		status["email_monitor"] = gin.H{
			"scanned": stats.Scanned,
			"flagged": stats.Flagged,
			"blocked": stats.Blocked,
		}
	}
	c.JSON(http.StatusOK, status)
}
