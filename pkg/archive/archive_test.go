package archive

import (
	"context"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestObjectName(t *testing.T) {
	id := uuid.MustParse("6f1c2f0e-4d0e-4c55-9d8c-0b5f0f3c1a2b")
	assert.Equal(t, "lessons/6f1c2f0e-4d0e-4c55-9d8c-0b5f0f3c1a2b/response.txt", ObjectName(id))
}

func TestNewMinIOWithoutClientIsNoop(t *testing.T) {
	a := NewMinIO(nil, "bucket")
	assert.Equal(t, Noop(), a)
	assert.NoError(t, a.SaveResponse(context.Background(), uuid.New(), "raw"))
}
