package handlers

import (
	"context"
	"encoding/json"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/piraces/feedzone/pkg/app"
	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
	feeddiscovery "github.com/piraces/feedzone/pkg/feed"
	"github.com/piraces/feedzone/pkg/helpers"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var policy = bluemonday.StrictPolicy()

type FeedDiscoverer interface {
	Discover(ctx context.Context, url string) (feeddiscovery.Discovered, error)
}

type Entry struct {
	ExternalID string `json:"externalID"`
}

type WebFeedEntry struct {
	ExternalID   string   `json:"externalID"`
	URL          string   `json:"url"`
	EditedName   *string  `json:"editedName,omitempty"`
	ContainerIDs []string `json:"containerIDs"`
}

type ErrorEntry struct {
	Error        bool   `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    int    `json:"errorCode"`
}

type createFolderRequest struct {
	Name string `json:"name"`
}

type createWebFeedRequest struct {
	URL         string  `json:"url"`
	EditedName  *string `json:"editedName"`
	ContainerID string  `json:"containerID"`
	Discover    bool    `json:"discover"`
}

type renameWebFeedRequest struct {
	EditedName *string `json:"editedName"`
}

type addWebFeedRequest struct {
	ContainerID string `json:"containerID"`
}

type moveWebFeedRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewRouter exposes the zone operations as a JSON API.
func NewRouter(a app.App, discoverer FeedDiscoverer) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.Path("/account").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleFindOrCreateAccount(w, r, a)
	})
	api.Path("/folders").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleCreateFolder(w, r, a)
	})
	api.Path("/folders/{id}").Methods(http.MethodPut).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleRenameFolder(w, r, a)
	})
	api.Path("/folders/{id}").Methods(http.MethodDelete).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleRemoveFolder(w, r, a)
	})
	api.Path("/feeds").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleCreateWebFeed(w, r, a, discoverer)
	})
	api.Path("/feeds/{id}").Methods(http.MethodPut).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleRenameWebFeed(w, r, a)
	})
	api.Path("/feeds/{id}/containers").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleAddWebFeed(w, r, a)
	})
	api.Path("/feeds/{id}/containers/{containerID}").Methods(http.MethodDelete).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleRemoveWebFeed(w, r, a)
	})
	api.Path("/feeds/{id}/move").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleMoveWebFeed(w, r, a)
	})
	api.Path("/containers/{id}/feeds").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleListWebFeeds(w, r, a)
	})

	return r
}

func HandleFindOrCreateAccount(w http.ResponseWriter, r *http.Request, a app.App) {
	externalID, err := a.FindOrCreateAccount.Handle(r.Context())
	if err != nil {
		writeError(w, "find_or_create_account", err)
		return
	}
	writeCreated(w, "find_or_create_account", http.StatusOK, externalID)
}

func HandleCreateFolder(w http.ResponseWriter, r *http.Request, a app.App) {
	var request createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "create_folder", "Invalid JSON body: "+err.Error())
		return
	}

	name := sanitizeName(request.Name)
	if name == "" {
		writeBadRequest(w, "create_folder", "Folder name can't be empty")
		return
	}

	externalID, err := a.CreateFolder.Handle(r.Context(), name)
	if err != nil {
		writeError(w, "create_folder", err)
		return
	}

	setLocation(w, "/api/folders", externalID)
	writeCreated(w, "create_folder", http.StatusCreated, externalID)
}

func HandleRenameFolder(w http.ResponseWriter, r *http.Request, a app.App) {
	var request createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "rename_folder", "Invalid JSON body: "+err.Error())
		return
	}

	name := sanitizeName(request.Name)
	if name == "" {
		writeBadRequest(w, "rename_folder", "Folder name can't be empty")
		return
	}

	folder := feed.NewFolder(mux.Vars(r)["id"], name)
	if err := a.RenameFolder.Handle(r.Context(), folder, name); err != nil {
		writeError(w, "rename_folder", err)
		return
	}
	writeNoContent(w, "rename_folder")
}

func HandleRemoveFolder(w http.ResponseWriter, r *http.Request, a app.App) {
	folder := containerHandle(mux.Vars(r)["id"])

	if r.URL.Query().Get("cascade") == "true" {
		if err := a.RemoveFolderCascade.Handle(r.Context(), folder); err != nil {
			writeError(w, "remove_folder_cascade", err)
			return
		}
		writeNoContent(w, "remove_folder_cascade")
		return
	}

	if err := a.RemoveFolder.Handle(r.Context(), folder); err != nil {
		writeError(w, "remove_folder", err)
		return
	}
	writeNoContent(w, "remove_folder")
}

func HandleCreateWebFeed(w http.ResponseWriter, r *http.Request, a app.App, discoverer FeedDiscoverer) {
	var request createWebFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "create_web_feed", "Invalid JSON body: "+err.Error())
		return
	}

	if !helpers.IsValidHttpUrl(request.URL) {
		log.Printf("[DEBUG] tried to create feed from invalid feed url '%q' skipping...", request.URL)
		writeBadRequest(w, "create_web_feed", "Invalid URL provided (must be in absolute format and with http or https scheme)...")
		return
	}

	feedURL := request.URL
	if request.Discover {
		discovered, err := discoverer.Discover(r.Context(), request.URL)
		if err != nil {
			writeBadRequest(w, "create_web_feed", "Could not find a feed URL in there: "+err.Error())
			return
		}
		feedURL = discovered.URL
	}

	address, err := feed.NewAddress(feedURL)
	if err != nil {
		writeBadRequest(w, "create_web_feed", err.Error())
		return
	}

	editedName, ok := sanitizeOptionalName(request.EditedName)
	if !ok {
		writeBadRequest(w, "create_web_feed", "Edited name can't be empty")
		return
	}

	externalID, err := a.CreateWebFeed.Handle(r.Context(), address, editedName, containerHandle(request.ContainerID))
	if err != nil {
		writeError(w, "create_web_feed", err)
		return
	}

	setLocation(w, "/api/feeds", externalID)
	writeCreated(w, "create_web_feed", http.StatusCreated, externalID)
}

func HandleRenameWebFeed(w http.ResponseWriter, r *http.Request, a app.App) {
	var request renameWebFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "rename_web_feed", "Invalid JSON body: "+err.Error())
		return
	}

	editedName, ok := sanitizeOptionalName(request.EditedName)
	if !ok {
		writeBadRequest(w, "rename_web_feed", "Edited name can't be empty, send null to clear it")
		return
	}

	webFeed := feed.NewWebFeedHandle(mux.Vars(r)["id"])
	if err := a.RenameWebFeed.Handle(r.Context(), webFeed, editedName); err != nil {
		writeError(w, "rename_web_feed", err)
		return
	}
	writeNoContent(w, "rename_web_feed")
}

func HandleAddWebFeed(w http.ResponseWriter, r *http.Request, a app.App) {
	var request addWebFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "add_web_feed", "Invalid JSON body: "+err.Error())
		return
	}

	webFeed := feed.NewWebFeedHandle(mux.Vars(r)["id"])
	if err := a.AddWebFeed.Handle(r.Context(), webFeed, containerHandle(request.ContainerID)); err != nil {
		writeError(w, "add_web_feed", err)
		return
	}
	writeNoContent(w, "add_web_feed")
}

func HandleRemoveWebFeed(w http.ResponseWriter, r *http.Request, a app.App) {
	vars := mux.Vars(r)

	webFeed := feed.NewWebFeedHandle(vars["id"])
	if err := a.RemoveWebFeed.Handle(r.Context(), webFeed, containerHandle(vars["containerID"])); err != nil {
		writeError(w, "remove_web_feed", err)
		return
	}
	writeNoContent(w, "remove_web_feed")
}

func HandleMoveWebFeed(w http.ResponseWriter, r *http.Request, a app.App) {
	var request moveWebFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "move_web_feed", "Invalid JSON body: "+err.Error())
		return
	}

	webFeed := feed.NewWebFeedHandle(mux.Vars(r)["id"])
	if err := a.MoveWebFeed.Handle(r.Context(), webFeed, containerHandle(request.From), containerHandle(request.To)); err != nil {
		writeError(w, "move_web_feed", err)
		return
	}
	writeNoContent(w, "move_web_feed")
}

func HandleListWebFeeds(w http.ResponseWriter, r *http.Request, a app.App) {
	metrics.ListRequests.Inc()

	webFeeds, err := a.ListWebFeeds.Handle(r.Context(), containerHandle(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, "list_web_feeds", err)
		return
	}

	entries := make([]WebFeedEntry, 0, len(webFeeds))
	for _, webFeed := range webFeeds {
		externalID, _ := webFeed.ExternalID()
		entries = append(entries, WebFeedEntry{
			ExternalID:   externalID,
			URL:          webFeed.Address().String(),
			EditedName:   webFeed.EditedName(),
			ContainerIDs: webFeed.ContainerIDs(),
		})
	}

	countOperation("list_web_feeds", "ok")
	writeJSON(w, http.StatusOK, entries)
}

// containerHandle references a container by ID only. Folders and the
// account are interchangeable for membership operations.
func containerHandle(externalID string) feed.Container {
	return feed.NewFolder(externalID, "")
}

func sanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(name)))
}

// sanitizeOptionalName returns false when a name was sent but nothing is
// left of it after sanitizing.
func sanitizeOptionalName(name *string) (*string, bool) {
	if name == nil {
		return nil, true
	}
	sanitized := sanitizeName(*name)
	if sanitized == "" {
		return nil, false
	}
	return &sanitized, true
}

func setLocation(w http.ResponseWriter, base string, externalID string) {
	location, err := helpers.UrlJoin(base, externalID)
	if err != nil {
		log.Printf("[WARN] failed to build location for %s: %v", externalID, err)
		return
	}
	w.Header().Set("Location", location)
}

func writeCreated(w http.ResponseWriter, operation string, status int, externalID string) {
	countOperation(operation, "ok")
	writeJSON(w, status, Entry{ExternalID: externalID})
}

func writeNoContent(w http.ResponseWriter, operation string) {
	countOperation(operation, "ok")
	w.WriteHeader(http.StatusNoContent)
}

func writeBadRequest(w http.ResponseWriter, operation string, message string) {
	countOperation(operation, "invalid")
	writeJSON(w, http.StatusBadRequest, ErrorEntry{
		Error:        true,
		ErrorMessage: message,
		ErrorCode:    http.StatusBadRequest,
	})
}

func writeError(w http.ResponseWriter, operation string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s failed: %v", operation, err)
		countOperation(operation, "error")
	} else {
		log.Printf("[DEBUG] %s rejected: %v", operation, err)
		countOperation(operation, "invalid")
	}

	writeJSON(w, status, ErrorEntry{
		Error:        true,
		ErrorMessage: err.Error(),
		ErrorCode:    status,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, zone.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func countOperation(operation string, result string) {
	metrics.OperationRequests.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response, _ := json.Marshal(value)
	_, _ = w.Write(response)
}
