package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newEntityID builds ids like "user_1718000000000_5f2a9c3d". Uniqueness is
// practical (millisecond timestamp + random suffix), not guaranteed.
func newEntityID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}
