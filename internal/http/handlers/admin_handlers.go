package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront-console/internal/dashboard"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"github.com/rogerio-castellano/storefront-console/internal/panel"
	"github.com/rogerio-castellano/storefront-console/internal/session"
	"github.com/rogerio-castellano/storefront-console/internal/web"
	"go.uber.org/zap"
)

const (
	maxUploadBytes = 10 << 20
	imageFileField = "imageFile"
	imageField     = "image"

	errUploadingImage = "Error uploading image: Please try again."
	errInvalidForm    = "The form could not be read: Please try again."
)

// AdminHandler renders the caller's dashboard on the requested page.
func AdminHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := dashboard.ParsePage(r.URL.Query().Get("page"))
	if !ok {
		http.Error(w, "unknown page", http.StatusNotFound)
		return
	}

	shell := shells.Shell(session.ViewerFrom(r.Context()).SID)
	shell.Switch(r.Context(), page)

	view := shell.View()
	render(w, r, http.StatusOK, web.PageAdmin, web.View{
		Title:   "Admin Dashboard",
		InAdmin: true,
		Data:    view,
	})
}

// ReloadHandler re-fetches whatever the page shows, the dashboard included.
func ReloadHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := dashboard.ParsePage(chi.URLParam(r, "resource"))
	if !ok {
		http.Error(w, "unknown page", http.StatusNotFound)
		return
	}

	shell := shells.Shell(session.ViewerFrom(r.Context()).SID)
	shell.Switch(r.Context(), page)
	shell.Reload(r.Context())
	redirectToPage(w, r, page)
}

// CreateHandler submits the form as a new record of the resource.
func CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, page, ok := resourcePanel(w, r)
	if !ok {
		return
	}

	form, ok := readPanelForm(w, r, ctrl)
	if ok {
		ctrl.CreateFromForm(r.Context(), form)
	}
	redirectToPage(w, r, page)
}

// UpdateHandler saves the form over the record being edited.
func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, page, ok := resourcePanel(w, r)
	if !ok {
		return
	}

	form, ok := readPanelForm(w, r, ctrl)
	if ok {
		ctrl.UpdateFromForm(r.Context(), form)
	}
	redirectToPage(w, r, page)
}

// EditHandler loads a record into the form.
func EditHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, page, ok := resourcePanel(w, r)
	if !ok {
		return
	}

	id := recordID(r)
	if err := ctrl.EditByID(id); err != nil {
		if !errors.Is(err, panel.ErrUnknownItem) {
			logger.FromContext(r.Context()).Error("editing record", zap.String("id", id), zap.Error(err))
		}
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	redirectToPage(w, r, page)
}

func CancelHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, page, ok := resourcePanel(w, r)
	if !ok {
		return
	}

	ctrl.CancelEdit()
	redirectToPage(w, r, page)
}

// DeleteHandler removes a record from the API and from the table.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctrl, page, ok := resourcePanel(w, r)
	if !ok {
		return
	}

	ctrl.Remove(r.Context(), recordID(r))
	redirectToPage(w, r, page)
}

// resourcePanel brings the resource's page up in the caller's dashboard and
// returns its panel. Posting to a page that is not shown switches to it first.
func resourcePanel(w http.ResponseWriter, r *http.Request) (panel.Controller, dashboard.Page, bool) {
	name := chi.URLParam(r, "resource")
	page, ok := dashboard.ParsePage(name)
	if !ok || page == dashboard.PageDashboard {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return nil, 0, false
	}

	shell := shells.Shell(session.ViewerFrom(r.Context()).SID)
	shell.Switch(r.Context(), page)
	ctrl, ok := shell.Panel(page.String())
	if !ok {
		http.Error(w, "unknown resource", http.StatusNotFound)
		return nil, 0, false
	}
	return ctrl, page, true
}

// readPanelForm parses a panel form. An attached image is uploaded and its URL
// replaces the image field. It reports false once a failure has been put in the
// panel's banner.
func readPanelForm(w http.ResponseWriter, r *http.Request, ctrl panel.Controller) (url.Values, bool) {
	log := logger.FromContext(r.Context())

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			ctrl.ShowError(errInvalidForm)
			return nil, false
		}
		return r.PostForm, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Info("parsing multipart form", zap.Error(err))
		ctrl.ShowError(errUploadingImage)
		return nil, false
	}
	form := r.PostForm

	file, header, err := r.FormFile(imageFileField)
	if errors.Is(err, http.ErrMissingFile) {
		return form, true
	}
	if err != nil {
		log.Info("reading uploaded image", zap.Error(err))
		ctrl.ShowError(errUploadingImage)
		return nil, false
	}
	defer file.Close()

	if header.Size == 0 {
		return form, true
	}
	if uploader == nil {
		log.Info("image upload ignored, no media provider configured", zap.String("filename", header.Filename))
		return form, true
	}

	imageURL, err := uploader.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Warn("uploading image", zap.String("filename", header.Filename), zap.Error(err))
		ctrl.ShowError(errUploadingImage)
		return nil, false
	}
	form.Set(imageField, imageURL)
	return form, true
}

// recordID is the {id} route segment with its path escaping undone.
func recordID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

func redirectToPage(w http.ResponseWriter, r *http.Request, page dashboard.Page) {
	http.Redirect(w, r, "/admin?page="+page.String(), http.StatusSeeOther)
}
