package services

import "errors"

var (
	ErrBatchInProgress = errors.New("an upload batch is already in progress")
	ErrNotInGallery    = errors.New("item not in gallery")
	ErrUnknownImage    = errors.New("image not in stored list")
)
