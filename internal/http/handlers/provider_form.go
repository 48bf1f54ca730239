package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/diagnosis/founder-playbook/internal/domain"
	"github.com/diagnosis/founder-playbook/internal/utils"
)

const maxLogoBytes = 500 * 1024

var logoTypes = regexp.MustCompile(`jpeg|jpg|png|gif|svg|webp`)

// providerJSON is the JSON body of provider writes. categories may be an
// array or a single id, numbers or numeric strings; bestFor an array or a
// comma-separated string.
type providerJSON struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	Logo             *string         `json:"logo"`
	Categories       json.RawMessage `json:"categories"`
	Category         json.RawMessage `json:"category"`
	PriceRange       *string         `json:"priceRange"`
	BestFor          json.RawMessage `json:"bestFor"`
	ContactWhatsApp  *string         `json:"contactWhatsApp"`
	ContactInstagram *string         `json:"contactInstagram"`
	ContactWebsite   *string         `json:"contactWebsite"`
	PracticalNotes   *string         `json:"practicalNotes"`
	Featured         *bool           `json:"featured"`
}

// decodeProviderFields reads a multipart form (with optional logo file) or a JSON body.
func decodeProviderFields(w http.ResponseWriter, r *http.Request) (domain.ProviderFields, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" || mt == "application/x-www-form-urlencoded" {
		return decodeProviderForm(w, r)
	}

	var in providerJSON
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && err != io.EOF {
		if tooLarge(err) {
			return domain.ProviderFields{}, fmt.Errorf("read provider body: %w", err)
		}
		return domain.ProviderFields{}, domain.NewValidation("Invalid JSON format")
	}

	f := domain.ProviderFields{
		Name:             in.Name,
		Description:      in.Description,
		Logo:             in.Logo,
		PriceRange:       in.PriceRange,
		ContactWhatsApp:  in.ContactWhatsApp,
		ContactInstagram: in.ContactInstagram,
		ContactWebsite:   in.ContactWebsite,
		PracticalNotes:   in.PracticalNotes,
		Featured:         in.Featured,
	}

	raw := in.Categories
	if len(raw) == 0 || string(raw) == "null" {
		raw = in.Category
	}
	if len(raw) > 0 && string(raw) != "null" {
		ids, err := parseCategoryJSON(raw)
		if err != nil {
			return f, err
		}
		f.CategoryIDs = &ids
	}

	if len(in.BestFor) > 0 && string(in.BestFor) != "null" {
		var tags []string
		if err := json.Unmarshal(in.BestFor, &tags); err != nil {
			var csv string
			if err := json.Unmarshal(in.BestFor, &csv); err != nil {
				return f, domain.NewValidation("bestFor must be a list or a comma-separated string")
			}
			tags = utils.SplitCSV(csv)
		}
		f.BestFor = &tags
	}
	return f, nil
}

func decodeProviderForm(w http.ResponseWriter, r *http.Request) (domain.ProviderFields, error) {
	var f domain.ProviderFields
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+maxJSONBody)
	if err := r.ParseMultipartForm(maxLogoBytes + maxJSONBody); err != nil && err != http.ErrNotMultipart {
		if tooLarge(err) {
			return f, fmt.Errorf("read provider form: %w", err)
		}
		return f, domain.NewValidation("Invalid form data")
	}

	str := func(key string) *string {
		if _, ok := r.Form[key]; !ok {
			return nil
		}
		v := r.FormValue(key)
		return &v
	}
	f.Name = str("name")
	f.Description = str("description")
	f.PriceRange = str("priceRange")
	f.ContactWhatsApp = str("contactWhatsApp")
	f.ContactInstagram = str("contactInstagram")
	f.ContactWebsite = str("contactWebsite")
	f.PracticalNotes = str("practicalNotes")

	if v := str("featured"); v != nil {
		b, err := strconv.ParseBool(strings.TrimSpace(*v))
		if err != nil {
			return f, domain.NewValidation("featured must be true or false")
		}
		f.Featured = &b
	}

	if v := str("bestFor"); v != nil {
		tags := utils.SplitCSV(*v)
		f.BestFor = &tags
	}

	raw := str("categories")
	if raw == nil || strings.TrimSpace(*raw) == "" {
		raw = str("category")
	}
	if raw != nil {
		ids, err := parseCategoryForm(*raw)
		if err != nil {
			return f, err
		}
		f.CategoryIDs = &ids
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["logo"]; len(files) > 0 {
			logo, err := readLogo(files[0].Filename, files[0].Header.Get("Content-Type"), files[0].Size, func() (io.ReadCloser, error) {
				return files[0].Open()
			})
			if err != nil {
				return f, err
			}
			f.Logo = &logo
		}
	}
	return f, nil
}

// parseCategoryForm accepts a JSON array string or a single id.
func parseCategoryForm(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int64{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		return parseCategoryJSON(json.RawMessage(raw))
	}
	id, err := parseCategoryID(raw)
	if err != nil {
		return nil, err
	}
	return []int64{id}, nil
}

func parseCategoryJSON(raw json.RawMessage) ([]int64, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		list = []json.RawMessage{raw}
	}
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			s = string(item)
		}
		id, err := parseCategoryID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseCategoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidation("invalid category id %q", s)
	}
	return id, nil
}

// readLogo validates an uploaded image and returns it as a data URL.
func readLogo(filename, contentType string, size int64, open func() (io.ReadCloser, error)) (string, error) {
	if size > maxLogoBytes {
		return "", domain.NewValidation("Logo must be 500KB or smaller")
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || !logoTypes.MatchString(ext) || !logoTypes.MatchString(contentType) {
		return "", domain.NewValidation("Only image files are allowed")
	}

	fh, err := open()
	if err != nil {
		return "", fmt.Errorf("open logo: %w", err)
	}
	defer fh.Close()

	data, err := io.ReadAll(io.LimitReader(fh, maxLogoBytes+1))
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	if len(data) > maxLogoBytes {
		return "", domain.NewValidation("Logo must be 500KB or smaller")
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
