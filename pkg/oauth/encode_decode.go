package oauthPKCE

import (
	"fmt"
	"strings"

	"github.com/abisalde/accounts-service/internal/model"
)

const stateSeparator = "|"

// State is the round-tripped OAuth state: "uuid|platform|mode|provider".
type State struct {
	UUID     string
	Platform model.OAuthPlatform
	Mode     model.LoginMode
	Provider model.OAuthProvider
}

func EncodeState(s State) string {
	return strings.Join([]string{s.UUID, string(s.Platform), string(s.Mode), string(s.Provider)}, stateSeparator)
}

func DecodeState(state string) (State, error) {
	parts := strings.Split(state, stateSeparator)
	if len(parts) != 4 {
		return State{}, fmt.Errorf("invalid state format")
	}

	s := State{
		UUID:     parts[0],
		Platform: model.OAuthPlatform(parts[1]),
		Mode:     model.LoginMode(parts[2]),
		Provider: model.OAuthProvider(parts[3]),
	}
	if s.UUID == "" || !s.Platform.IsValid() || !s.Mode.IsValid() || !s.Provider.IsValid() {
		return State{}, fmt.Errorf("invalid state values")
	}
	return s, nil
}

func VerifierCacheKey(platform model.OAuthPlatform, stateUUID string) string {
	return fmt.Sprintf("oauth:%s:%s", platform, stateUUID)
}
