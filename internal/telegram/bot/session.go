package bot

import (
	"strconv"

	"github.com/google/uuid"
)

// chatNamespace scopes the name-based session ids of Telegram chats.
var chatNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://t.me/medi-assistant"))

// SessionID maps a chat to its session id. The mapping is stable across
// restarts, so a chat finds its session again as long as it has not expired.
func SessionID(chatID int64) string {
	return uuid.NewSHA1(chatNamespace, []byte(strconv.FormatInt(chatID, 10))).String()
}
