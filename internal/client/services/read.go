package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/dmitrijs2005/securevision/internal/cryptox"
)

// readSubmission reads at most one byte past the upload limit so an
// understated SizeBytes is still caught.
func readSubmission(sub models.FileSubmission) ([]byte, []byte, error) {
	if sub.Handle == nil {
		return nil, nil, fmt.Errorf("%s: %w", sub.Name, common.ErrOriginalUnavailable)
	}

	rc, err := sub.Handle()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", sub.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	sum, err := cryptox.Digest(io.TeeReader(io.LimitReader(rc, common.MaxUploadSize+1), &buf))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", sub.Name, err)
	}
	if int64(buf.Len()) > common.MaxUploadSize {
		return nil, nil, fmt.Errorf("%s: %w", sub.Name, common.ErrFileTooLarge)
	}

	return buf.Bytes(), sum, nil
}

// rereadOriginal returns the original bytes only if they still hash to the
// digest recorded on first read.
func rereadOriginal(o *Original) ([]byte, error) {
	if o == nil {
		return nil, common.ErrOriginalUnavailable
	}
	data, sum, err := readSubmission(o.Submission)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrOriginalUnavailable, err)
	}
	if !cryptox.Equal(sum, o.Digest) {
		return nil, fmt.Errorf("%w: %s changed since it was submitted", common.ErrOriginalUnavailable, o.Submission.Name)
	}
	return data, nil
}
