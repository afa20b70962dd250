package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/countdown"
	"github.com/ultraverse/market-web/internal/models"
)

// Renderer executes the parsed page and fragment templates
type Renderer struct {
	tmpl *template.Template
	log  *zap.Logger
}

// NewRenderer walks the templates directory and parses every .tmpl file
func NewRenderer(dir string, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}

	tmpl, err := template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

// Page renders a full page template
func (rn *Renderer) Page(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rn.tmpl.ExecuteTemplate(w, name, data); err != nil {
		rn.log.Error("template execute failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// Fragment renders a partial; fragments must never be cached because they
// carry live marketplace state
func (rn *Renderer) Fragment(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Cache-Control", "no-store")
	rn.Page(w, name, data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price":     formatPrice,
		"eth":       formatEth,
		"countdown": countdownLabel,
		"millis":    millis,
		"seed":      encodeSeed,
	}
}

// formatPrice renders a nullable price; a missing price shows an em-dash
func formatPrice(p *float64) string {
	if p == nil {
		return "—"
	}
	return formatEth(*p)
}

func formatEth(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " ETH"
}

// millis flattens a nullable deadline for data attributes
func millis(endMillis *int64) int64 {
	if endMillis == nil {
		return 0
	}
	return *endMillis
}

// countdownLabel computes the label rendered into the pill before the live
// ticker takes over
func countdownLabel(endMillis *int64) string {
	if endMillis == nil {
		return ""
	}
	return countdown.Label(*endMillis, time.Now())
}

// seedRecord is the slim author snapshot carried through profile links so
// the header renders before the authoritative fetch lands
type seedRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// encodeSeed packs a seller entry into the profile link's seed parameter
func encodeSeed(s models.Seller) string {
	b, err := json.Marshal(seedRecord{ID: s.ID, Name: s.Name, Avatar: s.Avatar})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeSeed unpacks the seed parameter; a malformed seed is simply ignored
func decodeSeed(encoded string) *models.Author {
	if encoded == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var rec seedRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil
	}
	if rec.ID == "" {
		return nil
	}
	return &models.Author{ID: rec.ID, Name: rec.Name, Avatar: rec.Avatar}
}
