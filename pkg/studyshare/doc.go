// Package studyshare implements the core of the study resource sharing
// platform: ingestion of uploaded files into a blob store with a metadata
// record per resource, resolution of stored resources to time-boxed preview
// URLs, and user registration/authentication with hashed credentials.
//
// The package is storage-agnostic. Callers assemble a Service from a
// Repository (resource metadata), a BlobStore (raw bytes) and an optional
// preview TTL, and an IdentityService from an IdentityRepository and a
// PasswordHasher. Concrete implementations live in the repo, storage and
// password subpackages.
package studyshare
