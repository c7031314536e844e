package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"greia/pkg/config"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

// Clients bundles the Google clients built from one set of credentials.
type Clients struct {
	Auth      *Identity
	Firestore *firestore.Client
	Options   []option.ClientOption
}

// Credentials picks the service account from FIREBASE_SERVICE_ACCOUNT_JSON,
// then from the file path. ok is false when neither is available.
func Credentials(cfg *config.Config) (opts []option.ClientOption, ok bool) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}, true
	}
	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err == nil {
			logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
			return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}, true
		}
	}
	return nil, false
}

func NewClients(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Clients, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &Clients{
		Auth:      &Identity{client: authClient},
		Firestore: firestoreClient,
		Options:   opts,
	}, nil
}

func (c *Clients) Close() error {
	return c.Firestore.Close()
}

// Identity is the Firebase Auth account store behind registration and
// bearer-token login.
type Identity struct {
	client *auth.Client
}

// CreateUser provisions a Firebase account for a new marketplace user and
// returns its uid, which becomes the user document id.
func (i *Identity) CreateUser(ctx context.Context, email, password, name string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name).
		EmailVerified(false)

	user, err := i.client.CreateUser(ctx, params)
	if err != nil {
		return "", identityError(err)
	}
	return user.UID, nil
}

func (i *Identity) DeleteUser(ctx context.Context, uid string) error {
	if err := i.client.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return identityError(err)
	}
	return nil
}

// VerifyToken checks a Firebase ID token and returns the caller's uid.
func (i *Identity) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := i.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", identityError(err)
	}
	return result.UID, nil
}

func identityError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return errors.Conflict("Email already in use")
	case auth.IsIDTokenExpired(err), auth.IsIDTokenRevoked(err), auth.IsIDTokenInvalid(err):
		return errors.Unauthorized("Invalid or expired token", err)
	case auth.IsInvalidEmail(err):
		return errors.Validation("email must be a valid email address")
	}
	return errors.Internal("Authentication provider error", err)
}
