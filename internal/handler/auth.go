package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/config"
    "github.com/iliyamo/storefront/internal/metrics"
    "github.com/iliyamo/storefront/internal/model"
    "github.com/iliyamo/storefront/internal/repository"
    "github.com/iliyamo/storefront/internal/utils"
)

// AuthHandler bundles dependencies for the sign-in endpoint.
type AuthHandler struct {
    Cfg     config.Config
    Users   *repository.UserRepo
    Metrics *metrics.Aggregator
    Log     logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, m *metrics.Aggregator, log logrus.FieldLogger) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Metrics: m, Log: log}
}

type authReq struct {
    Mobile   string `json:"mobile"`
    Password string `json:"password"`
}

// Auth handles POST /api/auth.  An unknown mobile is registered on the
// spot (201); a known one is verified (200 or 401).
func (h *AuthHandler) Auth(c echo.Context) error {
    var req authReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Mobile and password required"})
    }
    req.Mobile = strings.TrimSpace(req.Mobile)
    if req.Mobile == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Mobile and password required"})
    }
    if !utils.ValidMobile(req.Mobile) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid mobile number"})
    }
    if len(req.Password) > utils.MaxPasswordBytes {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at most 72 bytes"})
    }
    if !utils.ValidPassword(req.Password) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 6 characters"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()
    log := logger(c, h.Log).WithField("mobile", req.Mobile)
    role := model.RoleFor(req.Mobile, h.Cfg.AdminMobile)

    u, err := h.Users.GetByMobile(ctx, req.Mobile)
    if errors.Is(err, repository.ErrUserNotFound) {
        _, err = h.Users.Create(ctx, req.Mobile, req.Password, h.Cfg.BcryptCost)
        switch {
        case err == nil:
            h.Metrics.Inc(metrics.UsersRegistered)
            log.Info("account created")
            return h.respond(c, http.StatusCreated, "Account created", req.Mobile, role)
        case errors.Is(err, repository.ErrMobileExists):
            // lost a registration race; the winner's row is verified below
            u, err = h.Users.GetByMobile(ctx, req.Mobile)
        default:
            log.WithError(err).Error("create user failed")
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
        }
    }
    if err != nil {
        log.WithError(err).Error("load user failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        h.Metrics.Inc(metrics.LoginFailed)
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
    }
    h.Metrics.Inc(metrics.LoginSuccessful)
    return h.respond(c, http.StatusOK, "Login successful", req.Mobile, role)
}

func (h *AuthHandler) respond(c echo.Context, status int, msg, mobile, role string) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, mobile, role, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(status, echo.Map{
        "message":      msg,
        "role":         role,
        "access_token": access.Token,
        "expires_at":   access.Exp,
    })
}
