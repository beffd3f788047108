package db

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/sevengen/site-backend/pkg/database"
)

// OpenFirestore creates the Firestore client of an initialized Firebase app and wraps it
// as a DocumentStore.
func OpenFirestore(ctx context.Context, app *firebase.App) (database.DocumentStore, error) {
	if app == nil {
		return nil, fmt.Errorf("OpenFirestore: firebase app cannot be nil")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	store, err := database.NewFirestoreStore(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return store, nil
}
