package actor

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/educhain/backend/core"
)

// ErrReadOnlyDirectory is returned by write operations when running against
// the fixed demo directory.
var ErrReadOnlyDirectory = errors.New("actor directory is read-only in demo mode")

// AuthenticationError means the supplied credential was rejected. It is
// user-correctable and surfaces next to the login form.
type AuthenticationError struct {
	Reason string
}

func (err *AuthenticationError) Error() string { return err.Reason }

// IsAuthenticationError reports whether err (or its cause) is an AuthenticationError.
func IsAuthenticationError(err error) bool {
	_, ok := errors.Cause(err).(*AuthenticationError)
	return ok
}

// LookupError means a valid credential was found but the Actor record behind
// it could not be loaded. It is logged and the session degrades to anonymous;
// it never reaches the rendering layer.
type LookupError struct {
	ActorID string
	Err     error
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("resolving actor %q: %v", err.ActorID, err.Err)
}

func (err *LookupError) Unwrap() error { return err.Err }

// Service is the session resolver. It owns the one Session per running client
// and is the only component allowed to mutate it.
type Service struct {
	conf     *core.Config
	session  *Session
	dir      Directory
	repo     Repository // nil in demo mode
	registry SessionRegistry
	creds    CredentialStore
	mailSvc  core.EmailService
	logger   core.Logger
}

func NewService(
	conf *core.Config,
	dir Directory,
	repo Repository,
	registry SessionRegistry,
	creds CredentialStore,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		conf:     conf,
		session:  NewSession(),
		dir:      dir,
		repo:     repo,
		registry: registry,
		creds:    creds,
		mailSvc:  mailSvc,
		logger:   logger,
	}
}

// Session returns a snapshot of the owned Session.
func (svc *Service) Session() Snapshot {
	return svc.session.Snapshot()
}

// Login validates the credential pair against the directory. On success the
// Session becomes authenticated, an issued session is registered and its
// opaque credential persisted; the credential is also returned for transports
// that hand it to the client. On failure the Session is left untouched.
func (svc *Service) Login(ctx context.Context, email, secret string) (Snapshot, string, error) {
	svc.session.mu.Lock()
	defer svc.session.mu.Unlock()

	act, err := svc.authenticate(ctx, email, secret)
	if err != nil {
		return svc.session.snapshot(), "", err
	}

	sid := uuid.New().String()
	if err = svc.registry.Register(ctx, sid, act.ID, svc.conf.Server.JWTExpirationDelta); err != nil {
		return svc.session.snapshot(), "", errors.Wrap(err, "registering session")
	}
	if err = svc.creds.Save(sid); err != nil {
		return svc.session.snapshot(), "", errors.Wrap(err, "persisting credential")
	}

	svc.session.setAuthenticated(act)
	return svc.session.snapshot(), sid, nil
}

func (svc *Service) authenticate(ctx context.Context, email, secret string) (Actor, error) {
	act, err := svc.dir.GetActorByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Actor{}, &AuthenticationError{Reason: "invalid credentials"}
		}
		return Actor{}, errors.Wrap(err, "finding actor by email")
	}
	if err = act.CheckPassword(secret); err != nil {
		return Actor{}, &AuthenticationError{Reason: "invalid credentials"}
	}
	if !act.IsActive {
		return Actor{}, &AuthenticationError{Reason: "account deactivated"}
	}

	if svc.repo != nil {
		now := time.Now().UTC()
		if err = svc.repo.SetLastLogin(ctx, act.ID, now); err != nil {
			return Actor{}, errors.Wrap(err, "setting lastLogin")
		}
		act.LastLogin = now
	}
	return act, nil
}

// Resolve establishes the session from the persisted credential, if any.
// It never returns an error: every failure path degrades to anonymous.
func (svc *Service) Resolve(ctx context.Context) Snapshot {
	svc.session.mu.Lock()
	defer svc.session.mu.Unlock()

	svc.session.setResolving()

	cred, err := svc.creds.Load()
	if err != nil {
		svc.logger.Error(fmt.Sprintf("loading persisted credential: %v", err), err)
		svc.session.setAnonymous()
		return svc.session.snapshot()
	}
	if cred == "" {
		svc.session.setAnonymous()
		return svc.session.snapshot()
	}

	snap, stale := svc.resolveCredential(ctx, cred)
	if stale {
		// credential no longer maps to a live session; drop it
		_ = svc.creds.Clear()
	}
	if snap.State == StateAuthenticated {
		svc.session.setAuthenticated(snap.Actor)
	} else {
		svc.session.setAnonymous()
	}
	return svc.session.snapshot()
}

// ResolveCredential resolves an explicitly presented credential without
// touching the owned Session; transports that carry the credential per request
// (the HTTP API) use this to build per-caller snapshots.
func (svc *Service) ResolveCredential(ctx context.Context, cred string) Snapshot {
	snap, _ := svc.resolveCredential(ctx, cred)
	return snap
}

func (svc *Service) resolveCredential(ctx context.Context, cred string) (snap Snapshot, stale bool) {
	snap = Snapshot{State: StateAnonymous}
	if cred == "" {
		return snap, false
	}

	actorID, err := svc.registry.Lookup(ctx, cred)
	if err != nil {
		if errors.Cause(err) != ErrSessionNotFound {
			svc.logger.Error(fmt.Sprintf("looking up issued session: %v", err), err)
			return snap, false
		}
		return snap, true
	}

	// the actor lookup is fallible and never retried; a failure degrades to
	// anonymous instead of rendering a broken authenticated shell
	act, err := svc.dir.GetActorByID(ctx, actorID)
	if err != nil {
		lerr := &LookupError{ActorID: actorID, Err: err}
		svc.logger.Error(lerr.Error(), lerr)
		return snap, false
	}
	if !act.IsActive {
		return snap, true
	}
	return Snapshot{State: StateAuthenticated, Actor: act}, false
}

// Logout clears the local credential and Session unconditionally; revoking the
// issued session is best-effort. Calling it on an anonymous session is a no-op.
func (svc *Service) Logout(ctx context.Context) error {
	svc.session.mu.Lock()
	defer svc.session.mu.Unlock()

	cred, err := svc.creds.Load()
	if err == nil && cred != "" {
		svc.RevokeCredential(ctx, cred)
	}
	if err = svc.creds.Clear(); err != nil {
		svc.logger.Warn(fmt.Sprintf("clearing persisted credential: %v", err), err)
	}
	svc.session.setAnonymous()
	return nil
}

// RevokeCredential revokes an issued session, best-effort.
func (svc *Service) RevokeCredential(ctx context.Context, cred string) {
	if err := svc.registry.Revoke(ctx, cred); err != nil {
		svc.logger.Warn(fmt.Sprintf("revoking session (local logout proceeds): %v", err), err)
	}
}

// RenewCredential extends the issued session behind a refreshed token.
func (svc *Service) RenewCredential(ctx context.Context, cred, actorID string) error {
	return svc.registry.Register(ctx, cred, actorID, svc.conf.Server.JWTExpirationDelta)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Actor, error) {
	return svc.dir.GetActorByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Actor, error) {
	return svc.dir.GetActorByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) checkUniqueness(email string, excluded ...Actor) error {
	if svc.repo == nil {
		return ErrReadOnlyDirectory
	}
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excluded...); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create registers a new Actor. Only available with a writable directory.
func (svc *Service) Create(ctx context.Context, na NewActor) (Actor, error) {
	if svc.repo == nil {
		return Actor{}, ErrReadOnlyDirectory
	}
	now := time.Now().UTC()
	act := Actor{
		Name:          na.Name,
		Email:         na.Email,
		Role:          na.Role,
		InstitutionID: na.InstitutionID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := act.SetPassword(na.Password); err != nil {
		return Actor{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateActor(ctx, act)
}

// RequestPasswordReset emails a timed reset link to the actor behind email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if svc.repo == nil {
		return ErrReadOnlyDirectory
	}
	act, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := MakeToken(act, svc.conf)
	if err != nil {
		return errors.Wrap(err, "generating reset token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: act.Name, Address: act.Email}},
		Subject: "Password Reset",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nFollow this link to reset your password:\n%s/password-reset?uid=%s&token=%s\n",
			act.Name, svc.conf.FrontendBaseURL, EncodeUID(act), token,
		),
	})
	return nil
}

// ResetPassword confirms a password reset.
func (svc *Service) ResetPassword(ctx context.Context, data ResetActorPassword) error {
	if svc.repo == nil {
		return ErrReadOnlyDirectory
	}
	id, err := decodeUID(data.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	act, err := svc.repo.GetActorByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding actor by ID")
	}
	if err = verifyToken(act, data.Token, svc.conf); err != nil {
		return core.NewValidationError(err)
	}
	if err = act.SetPassword(data.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	act.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateActor(ctx, act)
	return errors.Wrap(err, "updating actor")
}
