// Package mediacatalog provides a reusable library for cataloging media
// assets (certificates, gallery images and videos) with pluggable catalog
// repository and object storage backends.
//
// It exposes a single Service interface that unifies two provenance modes
// behind one record schema: binaries uploaded through the service are
// validated against a per-class policy, written to an object store under a
// collision-free key, and cataloged with the store-issued URL; externally
// hosted media is cataloged with the caller-supplied URL and never touches
// the object store. Implementations of repositories (e.g., memory, Postgres,
// DynamoDB) and object stores (e.g., memory, filesystem, S3) are provided
// under subpackages.
//
// The object write always precedes the catalog write, so a mid-flight failure
// can leave an orphaned stored object but never a catalog row pointing at an
// object that was not written.
package mediacatalog
