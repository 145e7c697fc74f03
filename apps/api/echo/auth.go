package echoapi

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/educhain/backend/core"
	"github.com/educhain/backend/core/actor"
)

var (
	jwtContextKey   = "actorToken"
	contextActorKey = "actor"
)

// newJWTConfig returns the JWT auth middleware config for authed endpoints.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
// Id carries the issued session credential; Subject the actor ID.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt  int64      `json:"oriat,omitempty"`
	Name          string     `json:"name,omitempty"`
	Email         string     `json:"email,omitempty"`
	Role          actor.Role `json:"role,omitempty"`
	InstitutionID string     `json:"institution_id,omitempty"`
}

func GetActorClaims(act actor.Actor, sid string, conf *core.Config, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   act.ID,
			Id:        sid,
			Audience:  "EduChain",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:  oriat,
		Name:          act.Name,
		Email:         act.Email,
		Role:          act.Role,
		InstitutionID: act.InstitutionID,
	}
}

// GenerateToken generates a signed JWT token string representing the actor Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

// bearerToken extracts the raw token from the Authorization header, if any.
func bearerToken(ctx echo.Context) string {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return auth[len("Bearer "):]
	}
	return ""
}

// parseToken validates a raw token outside the JWT middleware; endpoints that
// treat the credential as optional use it.
func parseToken(raw string, conf *core.Config) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, new(Claims), func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errors.Errorf("unexpected signing method: %v", t.Method.Alg())
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthorized
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errUnauthorized
	}
	return claims, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextActor(ctx echo.Context, svc *actor.Service, clms ...Claims) (actor.Actor, error) {
	if act, ok := ctx.Get(contextActorKey).(actor.Actor); ok {
		return act, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return actor.Actor{}, errors.Wrap(err, "getting context claims")
		}
	}

	act, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return actor.Actor{}, errors.Wrap(err, "finding actor by ID")
	}
	ctx.Set(contextActorKey, act)
	return act, nil
}

func refreshToken(ctx echo.Context, svc *actor.Service, conf *core.Config) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	act, err := getContextActor(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context actor")
	}

	// check if actor is still active
	if !act.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	// extend the issued session behind the token
	if err = svc.RenewCredential(ctx.Request().Context(), claims.Id, act.ID); err != nil {
		return "", errors.Wrap(err, "renewing session")
	}

	newClaims := GetActorClaims(act, claims.Id, conf, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims, conf)
	return token, errors.Wrap(err, "generating token")
}
