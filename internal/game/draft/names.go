package draft

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// 机器人名字
const (
	botNamePrefix     = "Bot "
	syntheticBotMark  = "BOT_"
	syntheticIDLength = 4
)

// nextBotName 生成 "Bot N" 形式的名字，N 从 hint 开始递增直到不重名
func (s *Session) nextBotName(hint int) string {
	for n := hint; ; n++ {
		name := fmt.Sprintf("%s%d", botNamePrefix, n)
		if s.seatByName(name) == nil {
			return name
		}
	}
}

// syntheticBotName 为被踢或超时的座位生成 "BOT_xxxx" 形式的名字
func (s *Session) syntheticBotName() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		name := syntheticBotMark + strings.ToUpper(id[:syntheticIDLength])
		if s.seatByName(name) == nil {
			return name
		}
	}
}
