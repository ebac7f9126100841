// Copyright (c) 2026 FilmArchive. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/filmarchive/pkg/uuid"
)

func TestNew_IsVersion7(t *testing.T) {
	id := uuid.New()
	assert.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14])
	assert.NotEqual(t, id, uuid.New())
}

func TestCanonical(t *testing.T) {
	got, ok := uuid.Canonical("0190A6F2-8C3B-7E21-9D4A-1B2C3D4E5F60")
	assert.True(t, ok)
	assert.Equal(t, "0190a6f2-8c3b-7e21-9d4a-1b2c3d4e5f60", got)

	_, ok = uuid.Canonical("../etc/passwd")
	assert.False(t, ok)
}
