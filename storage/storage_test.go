package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvidenceFile(t *testing.T) {
	mimeType, err := ValidateEvidenceFile("notice.PDF", 1024)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mimeType)

	mimeType, err = ValidateEvidenceFile("photo.jpeg", 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)

	_, err = ValidateEvidenceFile("malware.exe", 1024)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = ValidateEvidenceFile("huge.pdf", MaxEvidenceFileSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = ValidateEvidenceFile("huge.pdf", MaxEvidenceFileSize)
	assert.NoError(t, err)
}

func TestAttachmentPathSanitizes(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	path := attachmentPath(id, "move out/photos report.pdf")

	assert.Equal(t, "evidence/aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_move_out_photos_report.pdf", path)
}
