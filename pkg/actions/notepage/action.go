// Package notepage creates pages on the note service from workflow events.
package notepage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/notion"
	"github.com/autofy/autofy/pkg/retry"
	"github.com/autofy/autofy/pkg/template"
)

type destinationType int

const (
	destinationUnknown destinationType = iota
	destinationDatabase
	destinationPage
)

const defaultTitleProperty = "Name"

// Action creates one page per event under the configured destination.
type Action struct {
	UserID          string
	DestinationID   string
	TitleTemplate   string
	ContentTemplate string
	TitleProperty   string

	client *notion.Client
	store  *credentials.Store
}

func (a *Action) Execute(ctx context.Context, event *models.EnrichedEvent, logger *slog.Logger) (*protocol.ActionResult, error) {
	credential, err := a.store.Resolve(ctx, a.UserID, "notion")
	if err != nil {
		return nil, fmt.Errorf("resolving note credential: %w", err)
	}

	token := credential.Token()

	destination, err := a.detectDestination(ctx, logger, token)
	if err != nil {
		return nil, err
	}

	title := template.Render(a.TitleTemplate, event)
	content := template.Render(a.ContentTemplate, event)
	chunks := Chunk(content, maxBlockLength)

	request := notion.CreatePageRequest{
		Parent:     a.parentFor(destination),
		Properties: a.propertiesFor(destination, title),
		Children:   paragraphBlocks(chunks),
	}

	page, err := retry.DoValue(ctx, logger, retry.Options{}, func(ctx context.Context) (*notion.Page, error) {
		return a.client.CreatePage(ctx, token, request)
	})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	logger.Info("Created note page",
		"page_id", page.ID,
		"destination_id", a.DestinationID,
		"blocks", len(chunks))

	return &protocol.ActionResult{
		ArtifactsCreated: 1,
		Output: map[string]any{
			"page_id":  page.ID,
			"page_url": page.URL,
			"blocks":   len(chunks),
		},
	}, nil
}

// detectDestination probes the id as a database first, then as a page.
// Detection runs on every call so sharing changes take effect immediately.
func (a *Action) detectDestination(ctx context.Context, logger *slog.Logger, token string) (destinationType, error) {
	databaseErr := retry.Do(ctx, logger, retry.Options{}, func(ctx context.Context) error {
		return a.client.RetrieveDatabase(ctx, token, a.DestinationID)
	})
	if databaseErr == nil {
		return destinationDatabase, nil
	}

	pageErr := retry.Do(ctx, logger, retry.Options{}, func(ctx context.Context) error {
		return a.client.RetrievePage(ctx, token, a.DestinationID)
	})
	if pageErr == nil {
		return destinationPage, nil
	}

	return destinationUnknown, fmt.Errorf(
		"destination %s is neither an accessible database nor an accessible page; "+
			"share the database or page with the integration and verify the id (database lookup: %v; page lookup: %v)",
		a.DestinationID, databaseErr, pageErr)
}

func (a *Action) parentFor(destination destinationType) map[string]any {
	if destination == destinationDatabase {
		return map[string]any{"database_id": a.DestinationID}
	}

	return map[string]any{"page_id": a.DestinationID}
}

// propertiesFor builds the title property in the shape the parent type
// requires: databases key the title by its property name, plain pages use
// the reserved "title" property.
func (a *Action) propertiesFor(destination destinationType, title string) map[string]any {
	titleValue := map[string]any{
		"title": []map[string]any{
			{"text": map[string]any{"content": title}},
		},
	}

	if destination == destinationDatabase {
		return map[string]any{a.TitleProperty: titleValue}
	}

	return map[string]any{"title": titleValue}
}

func paragraphBlocks(chunks []string) []map[string]any {
	blocks := make([]map[string]any, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, map[string]any{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": []map[string]any{
					{"type": "text", "text": map[string]any{"content": chunk}},
				},
			},
		})
	}

	return blocks
}
