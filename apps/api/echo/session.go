package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
	"github.com/educhain/backend/core/nav"
)

type sessionApi struct {
	svc      *actor.Service
	conf     *core.Config
	logger   core.Logger
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, api sessionApi) {
	sg := g.Group("/session")

	// un-authed endpoints
	// TODO: rate limit `/login`, `/password-reset` & `/password-reset-confirm`
	sg.POST("/login", api.login)
	sg.POST("/password-reset", api.resetPassword)
	sg.POST("/password-reset-confirm", api.confirmPasswordReset)

	// the credential is optional here: an invalid or expired token resolves to
	// an anonymous session, it never fails the request
	sg.GET("", api.retrieve)
	sg.DELETE("", api.destroy)

	// authed endpoints; per-route middleware so the `""` routes above stay
	// reachable without a token
	sg.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

func (api *sessionApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	snap, sid, err := api.svc.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if actor.IsAuthenticationError(err) {
			return err
		}
		return errors.Wrap(err, "logging in")
	}

	token, err := GenerateToken(GetActorClaims(snap.Actor, sid, api.conf), api.conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	snap := actor.Snapshot{State: actor.StateAnonymous}
	if raw := bearerToken(ctx); raw != "" {
		if claims, err := parseToken(raw, api.conf); err == nil {
			snap = api.svc.ResolveCredential(ctx.Request().Context(), claims.Id)
		}
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(snap))
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	// revocation is best-effort; logout always succeeds
	if raw := bearerToken(ctx); raw != "" {
		if claims, err := parseToken(raw, api.conf); err == nil {
			api.svc.RevokeCredential(ctx.Request().Context(), claims.Id)
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *sessionApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email)
	if !(err == nil || errors.Cause(err) == actor.ErrNotFound || errors.Cause(err) == actor.ErrReadOnlyDirectory) {
		// do not return errors to attackers
		api.logger.Error(fmt.Sprintf("requesting password reset: %v", err), err)
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *sessionApi) confirmPasswordReset(ctx echo.Context) error {
	var data actor.ResetActorPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetActorPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == actor.ErrReadOnlyDirectory {
			return errReadOnlyDirectory
		}
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	SessionResponse struct {
		State   string       `json:"state"`
		Actor   *actor.Actor `json:"actor,omitempty"`
		Entries []nav.Entry  `json:"entries,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func newSessionResponse(snap actor.Snapshot) SessionResponse {
	res := SessionResponse{State: snap.State.String()}
	if snap.State == actor.StateAuthenticated {
		act := snap.Actor
		res.Actor = &act
		res.Entries = nav.VisibleEntries(act.Role)
	}
	return res
}
