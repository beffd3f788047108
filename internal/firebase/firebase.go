package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Credentials selects how the Admin SDK authenticates. With neither field set, Application
// Default Credentials are used.
type Credentials struct {
	ProjectID          string
	CredentialsFile    string
	ServiceAccountJSON string // base64 encoded
}

// ClientOptions turns the credentials into client options.
func (c Credentials) ClientOptions() ([]option.ClientOption, error) {
	switch {
	case c.CredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}, nil
	case c.ServiceAccountJSON != "":
		jsonKey, err := base64.StdEncoding.DecodeString(c.ServiceAccountJSON)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		return []option.ClientOption{option.WithCredentialsJSON(jsonKey)}, nil
	}
	return nil, nil
}

// InitFirebase initializes the Firebase Admin app.
func InitFirebase(ctx context.Context, creds Credentials) (*firebase.App, error) {
	if creds.ProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}
	opts, err := creds.ClientOptions()
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: creds.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	return app, nil
}
