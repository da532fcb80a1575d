package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/logging"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// DefaultMaxUpload is the upload size limit when Handler.MaxUpload is 0.
const DefaultMaxUpload = 10 << 20

// Handler serves BlurHash requests.
type Handler struct {
	Encoder   *pipeline.Encoder
	Profile   profile.Profile // default grid and max size; x/y form fields override the grid
	MaxUpload int64
	Log       *slog.Logger
}

// EncodeResponse is the body of a successful POST /blurhash.
type EncodeResponse struct {
	BlurHash    string `json:"blurhash"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ComponentsX int    `json:"components_x"`
	ComponentsY int    `json:"components_y"`
	Cached      bool   `json:"cached"`
}

func (h *Handler) logger() *slog.Logger {
	return logging.OrNop(h.Log)
}

func (h *Handler) maxUpload() int64 {
	if h.MaxUpload > 0 {
		return h.MaxUpload
	}
	return DefaultMaxUpload
}

// EncodeHandler hashes one uploaded image.
//
//	POST /blurhash   multipart: image (file), x, y (optional, 1-9)
func (h *Handler) EncodeHandler(c *gin.Context) {
	limit := h.maxUpload()
	// Leave room for the multipart envelope and the other fields.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file not found"})
		return
	}
	defer file.Close()

	if header.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
		return
	}

	prof := h.Profile
	if prof.ComponentsX, err = gridField(c, "x", prof.ComponentsX); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if prof.ComponentsY, err = gridField(c, "y", prof.ComponentsY); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}

	enc, err := h.Encoder.EncodeBytes(header.Filename, data, prof)
	if err != nil {
		h.logger().Debug("encode failed", "file", header.Filename, "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return
	}

	c.JSON(http.StatusOK, EncodeResponse{
		BlurHash:    enc.Hash,
		Width:       enc.OriginalWidth,
		Height:      enc.OriginalHeight,
		ComponentsX: prof.ComponentsX,
		ComponentsY: prof.ComponentsY,
		Cached:      enc.Cached,
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var errGrid = errors.New("components must be between 1 and 9")

func gridField(c *gin.Context, name string, def int) (int, error) {
	s := c.PostForm(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > blurhash.MaxComponents {
		return 0, errGrid
	}
	return v, nil
}
