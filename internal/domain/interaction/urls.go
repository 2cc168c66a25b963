package interaction

import (
	"net/url"
	"strings"
)

const DefaultAPIBase = "https://discord.com/api/v10"

func DeferralURL(apiBase string, in Interaction) string {
	return trimBase(apiBase) + "/interactions/" + url.PathEscape(in.ID) + "/" + url.PathEscape(in.Token) + "/callback"
}

func WebhookURL(apiBase, appID, token string) string {
	return trimBase(apiBase) + "/webhooks/" + url.PathEscape(appID) + "/" + url.PathEscape(token)
}

func CommandsURL(apiBase, appID string) string {
	return trimBase(apiBase) + "/applications/" + url.PathEscape(appID) + "/commands"
}

func trimBase(apiBase string) string {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		return DefaultAPIBase
	}
	return apiBase
}
