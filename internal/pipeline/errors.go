package pipeline

import (
	"fmt"
	"strings"
)

// BatchQualityError reports that one or more data-quality checks produced
// rejects. It is returned only after the clean and rejected sets have been
// persisted: the caller must read it as "output written, review the error
// log", not as "nothing happened".
type BatchQualityError struct {
	Messages []string
}

func (e *BatchQualityError) Error() string {
	return fmt.Sprintf("DQ checks failed: %s", strings.Join(e.Messages, ", "))
}
