package cmd

import (
	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/protocol"
)

// NewDependencies assembles the shared collaborators adapter factories
// need. Credential resolution tries the user's own credential first and
// falls back to the deployment's shared service tokens.
func NewDependencies(p persistence.Persistence, providers *config.Providers) protocol.Dependencies {
	store := credentials.NewStore(
		p.CredentialRepository(),
		credentials.NewUserResolver(p.CredentialRepository()),
		credentials.NewSharedResolver(providers.SharedTokens()),
	)

	return protocol.Dependencies{
		Credentials: store,
		Chats:       p.ChatRepository(),
		Providers:   providers,
	}
}
