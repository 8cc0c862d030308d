package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"modfy_server/lib"
	"modfy_server/structs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type UploadKind string

const (
	UploadProducts   UploadKind = "products"
	UploadCategories UploadKind = "categories"
)

const (
	publicArea  = "public"
	privateArea = "private"

	uploadTargetPrefix = "upload_target:"
	uploadTargetTTL    = 15 * time.Minute
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadService stores images on disk under the upload root. Issued private upload targets are
// kept in redis when a cache is configured, in process otherwise.
type UploadService struct {
	logger   *gecho.Logger
	cache    *CacheService
	root     string
	maxBytes int64
	now      func() time.Time

	mu      sync.Mutex
	targets map[string]time.Time
}

func NewUploadService(logger *gecho.Logger, cfg *structs.UploadConfig, cache *CacheService) *UploadService {
	return &UploadService{
		logger:   logger,
		cache:    cache,
		root:     cfg.Dir,
		maxBytes: cfg.MaxBytes,
		now:      time.Now,
		targets:  make(map[string]time.Time),
	}
}

// readImage reads at most maxBytes and sniffs the content. The declared type is ignored.
func (us *UploadService) readImage(r io.Reader) ([]byte, *mimetype.MIME, error) {
	data, err := io.ReadAll(io.LimitReader(r, us.maxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, lib.NewValidationError("image", "is required")
	}
	if int64(len(data)) > us.maxBytes {
		return nil, nil, lib.NewValidationError("image", fmt.Sprintf("must be at most %d bytes", us.maxBytes))
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return data, mtype, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", lib.ErrUnsupportedFile, mtype.String())
}

func (us *UploadService) write(rel string, data []byte) error {
	full := filepath.Join(us.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write upload: %w", err)
	}
	return nil
}

// SaveImage stores a product or category image and returns its public url:
// /public-objects/<kind>/<owner>/<name>-<unix ms>-<rand><ext>
func (us *UploadService) SaveImage(kind UploadKind, owner, filename string, r io.Reader) (string, error) {
	data, mtype, err := us.readImage(r)
	if err != nil {
		return "", err
	}

	stem := strings.TrimSuffix(path.Base(filepath.ToSlash(filename)), path.Ext(filename))
	name := fmt.Sprintf("%s-%d-%d%s",
		lib.SanitizePathSegment(stem),
		us.now().UnixMilli(),
		rand.IntN(1_000_000_000),
		mtype.Extension())

	rel := path.Join(string(kind), lib.SanitizePathSegment(owner), name)
	if err := us.write(path.Join(publicArea, rel), data); err != nil {
		us.logger.Error("Failed to store image", gecho.Field("error", err), gecho.Field("path", rel))
		return "", err
	}

	us.logger.Info("Image uploaded", gecho.Field("path", rel), gecho.Field("bytes", len(data)), gecho.Field("type", mtype.String()))
	return "/public-objects/" + rel, nil
}

// UploadTarget is handed to clients that PUT a private object in a second request.
type UploadTarget struct {
	UploadURL  string `json:"uploadUrl"`
	ObjectPath string `json:"objectPath"`
}

// IssueUploadURL records a one-off target that expires after uploadTargetTTL.
func (us *UploadService) IssueUploadURL(ctx context.Context) (*UploadTarget, error) {
	id := uuid.NewString()

	if us.cache != nil {
		if err := us.cache.Set(ctx, uploadTargetPrefix+id, "1", uploadTargetTTL); err != nil {
			return nil, fmt.Errorf("failed to record upload target: %w", err)
		}
	} else {
		us.mu.Lock()
		now := us.now()
		for issued, expires := range us.targets {
			if now.After(expires) {
				delete(us.targets, issued)
			}
		}
		us.targets[id] = now.Add(uploadTargetTTL)
		us.mu.Unlock()
	}

	return &UploadTarget{
		UploadURL:  "/api/admin/objects/uploads/" + id,
		ObjectPath: "/objects/uploads/" + id,
	}, nil
}

// claimTarget consumes an issued target. Unknown, expired and already used ids report false.
func (us *UploadService) claimTarget(ctx context.Context, id string) (bool, error) {
	if us.cache != nil {
		return us.cache.Take(ctx, uploadTargetPrefix+id)
	}

	us.mu.Lock()
	defer us.mu.Unlock()
	expires, ok := us.targets[id]
	delete(us.targets, id)
	return ok && !us.now().After(expires), nil
}

// SavePrivateObject stores the body of a PUT to a url handed out by IssueUploadURL.
func (us *UploadService) SavePrivateObject(ctx context.Context, objectID string, r io.Reader) (string, error) {
	if _, err := uuid.Parse(objectID); err != nil {
		return "", lib.ErrNotFound
	}
	ok, err := us.claimTarget(ctx, objectID)
	if err != nil {
		return "", err
	}
	if !ok {
		us.logger.Warn("Upload to unissued target", gecho.Field("object_id", objectID))
		return "", lib.ErrNotFound
	}

	data, _, err := us.readImage(r)
	if err != nil {
		return "", err
	}

	rel := path.Join("uploads", objectID)
	if err := us.write(path.Join(privateArea, rel), data); err != nil {
		us.logger.Error("Failed to store object", gecho.Field("error", err), gecho.Field("object_id", objectID))
		return "", err
	}
	return "/objects/" + rel, nil
}

// OpenPublic opens a file under the public area.
func (us *UploadService) OpenPublic(p string) (*os.File, error) {
	return us.open(publicArea, p)
}

// OpenPrivate opens a file under the private area.
func (us *UploadService) OpenPrivate(p string) (*os.File, error) {
	return us.open(privateArea, p)
}

// open resolves p inside area. Paths containing .. segments are rejected.
func (us *UploadService) open(area, p string) (*os.File, error) {
	p = filepath.ToSlash(p)
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return nil, lib.ErrInvalidInput
		}
	}

	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if clean == "" {
		return nil, lib.ErrNotFound
	}

	base := filepath.Join(us.root, area)
	full := filepath.Join(base, filepath.FromSlash(clean))
	if !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return nil, lib.ErrInvalidInput
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lib.ErrNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, lib.ErrNotFound
	}
	return f, nil
}

// IsImage reports whether data sniffs as an allowed image type.
func IsImage(data []byte) bool {
	mtype := mimetype.Detect(bytes.Clone(data))
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}
