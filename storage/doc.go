// Package storage defines the object store used for recorded audio.
//
// Audio is written either by the service (multipart uploads) or directly by
// clients through presigned PUT URLs, and is always read back through
// presigned GET URLs. Backends register a Factory under their provider name;
// storage/s3 is the production backend.
//
//	storage:
//	  provider: s3
//	  bucket: zillusion-capsule-audio-s3
//	  region: us-east-1
//	  url_expiry: 60m
package storage
