// Package models defines the client-side data types of the SecureVision
// review workflow: submissions, detection results, outcomes and livestream
// state.
package models
