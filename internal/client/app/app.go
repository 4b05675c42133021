// Package app is the terminal view layer. It renders forms, lists and
// search results on top of the session store, the route guard, the query
// cache and the API client, and owns no domain state of its own.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"qoralist/internal/client/api"
	"qoralist/internal/client/cache"
	"qoralist/internal/client/guard"
	"qoralist/internal/client/session"
	"qoralist/internal/models"
)

// Cache keys for the read operations.
const (
	keyMe        = "auth/me"
	keyProfile   = "user/profile"
	keyMyRecords = "records/my"
)

// searchKey derives the cache key for one search query.
func searchKey(params models.SearchParams) string {
	q := url.Values{}
	q.Set("passportSeriya", params.PassportSeriya)
	q.Set("passportCode", params.PassportCode)
	return cache.Key("records/search", q)
}

// Service is the domain API surface the app consumes.
// The real api.Client satisfies it; tests provide a stub.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	FetchSelf(ctx context.Context) (*models.UserSummary, error)
	FetchProfile(ctx context.Context) (*models.UserSummary, error)
	SearchRecord(ctx context.Context, params models.SearchParams) (*models.Record, error)
	ListMyRecords(ctx context.Context) ([]models.Record, error)
	CreateRecord(ctx context.Context, data models.CreateRecordData) (*models.Record, error)
	DeleteRecord(ctx context.Context, id string) error
}

// App drives the interactive client.
type App struct {
	sess  *session.Store
	guard *guard.Guard
	api   Service
	cache *cache.Cache

	reader *bufio.Reader
	out    io.Writer
	log    *zap.Logger
}

// New wires the view layer to its collaborators.
func New(sess *session.Store, g *guard.Guard, api Service, c *cache.Cache, reader *bufio.Reader, out io.Writer, log *zap.Logger) *App {
	a := &App{
		sess:   sess,
		guard:  g,
		api:    api,
		cache:  c,
		reader: reader,
		out:    out,
		log:    log,
	}

	// Personal reads must not survive the session they belong to.
	sess.Subscribe(func(s session.Snapshot) {
		if !s.Authenticated() {
			c.InvalidateAll()
		}
	})
	return a
}

// navigate resolves the target through the route guard and renders the
// resulting view. A redirect discards the original navigation.
func (a *App) navigate(ctx context.Context, target guard.Route) {
	resolved := a.guard.Resolve(target)
	if resolved != target {
		a.log.Debug("navigation redirected",
			zap.String("target", string(target)),
			zap.String("resolved", string(resolved)),
		)
	}

	switch resolved {
	case guard.RouteLogin:
		a.loginScreen(ctx)
	case guard.RouteHome:
		a.searchScreen(ctx)
	case guard.RouteMyRecords:
		a.myRecordsScreen(ctx)
	case guard.RouteAddRecord:
		a.addRecordScreen(ctx)
	case guard.RouteProfile:
		a.profileScreen(ctx)
	default:
		fmt.Fprintln(a.out, "Unknown view")
	}
}

// loginScreen prompts for credentials and establishes the session.
// A failed submission surfaces the message and stays on the screen.
func (a *App) loginScreen(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return
	}
	if username == "" || password == "" {
		fmt.Fprintln(a.out, "Username and password are required")
		return
	}

	result, err := a.api.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", errMessage(err))
		return
	}

	a.sess.SetAuth(&result.User, result.Token)
	fmt.Fprintf(a.out, "Welcome, %s\n", result.User.Name)
}

// searchScreen runs one passport lookup and renders the outcome.
// "Not found" is a normal state, rendered explicitly, never as an error.
func (a *App) searchScreen(ctx context.Context) {
	seriya, err := GetSimpleText(a.reader, "Passport seriya (AD/AB/KA/AE/AC)", a.out)
	if err != nil {
		return
	}
	code, err := GetSimpleText(a.reader, "Passport code (6 digits)", a.out)
	if err != nil {
		return
	}

	params := models.SearchParams{PassportSeriya: seriya, PassportCode: code}
	if err := params.Validate(); err != nil {
		fmt.Fprintln(a.out, "Invalid input:", err)
		return
	}

	fmt.Fprintln(a.out, "Searching...")
	rec, err := cache.Fetch(ctx, a.cache, searchKey(params), func(ctx context.Context) (*models.Record, error) {
		return a.api.SearchRecord(ctx, params)
	})
	if err != nil {
		fmt.Fprintln(a.out, "Search failed:", errMessage(err))
		return
	}
	if rec == nil {
		fmt.Fprintln(a.out, "No record found for this passport")
		return
	}
	a.renderRecord(rec)
}

// myRecordsScreen lists the caller's own records.
func (a *App) myRecordsScreen(ctx context.Context) {
	fmt.Fprintln(a.out, "Loading records...")
	records, err := cache.Fetch(ctx, a.cache, keyMyRecords, func(ctx context.Context) ([]models.Record, error) {
		return a.api.ListMyRecords(ctx)
	})
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load records:", errMessage(err))
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "You have no records yet")
		return
	}
	a.renderRecords(records)
}

// addRecordScreen collects and validates a new record before any request
// is sent, then creates it through the cache so the list is invalidated.
func (a *App) addRecordScreen(ctx context.Context) {
	data, err := a.promptRecordData()
	if err != nil {
		return
	}
	if err := data.Validate(); err != nil {
		fmt.Fprintln(a.out, "Invalid input:", err)
		return
	}

	err = a.cache.Mutate(ctx, []string{keyMyRecords}, func(ctx context.Context) error {
		rec, err := a.api.CreateRecord(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Record %s created\n", rec.ID)
		return nil
	})
	if err != nil {
		fmt.Fprintln(a.out, "Create failed:", errMessage(err))
	}
}

// deleteRecord removes one of the caller's records by ID.
func (a *App) deleteRecord(ctx context.Context, id string) {
	err := a.cache.Mutate(ctx, []string{keyMyRecords}, func(ctx context.Context) error {
		return a.api.DeleteRecord(ctx, id)
	})
	if err != nil {
		fmt.Fprintln(a.out, "Delete failed:", errMessage(err))
		return
	}
	fmt.Fprintln(a.out, "Record deleted")
}

// profileScreen shows the extended profile of the authenticated user.
func (a *App) profileScreen(ctx context.Context) {
	profile, err := cache.Fetch(ctx, a.cache, keyProfile, func(ctx context.Context) (*models.UserSummary, error) {
		return a.api.FetchProfile(ctx)
	})
	if err != nil {
		fmt.Fprintln(a.out, "Failed to load profile:", errMessage(err))
		return
	}
	a.sess.SetUser(profile)

	fmt.Fprintf(a.out, "Name:     %s\n", profile.Name)
	fmt.Fprintf(a.out, "Username: %s\n", profile.Username)
	fmt.Fprintf(a.out, "Phone:    %s\n", profile.Phone)
	if profile.Role != "" {
		fmt.Fprintf(a.out, "Role:     %s\n", profile.Role)
	}
}

// promptRecordData reads the creation form fields.
func (a *App) promptRecordData() (models.CreateRecordData, error) {
	var data models.CreateRecordData
	var err error

	if data.Name, err = GetSimpleText(a.reader, "Name (optional)", a.out); err != nil {
		return data, err
	}
	if data.Surname, err = GetSimpleText(a.reader, "Surname (optional)", a.out); err != nil {
		return data, err
	}
	if data.PassportSeriya, err = GetSimpleText(a.reader, "Passport seriya (AD/AB/KA/AE/AC)", a.out); err != nil {
		return data, err
	}
	if data.PassportCode, err = GetSimpleText(a.reader, "Passport code (7 digits)", a.out); err != nil {
		return data, err
	}
	if data.Type, err = GetSimpleText(a.reader, "Type (NasiyaMijoz/PulTolamagan)", a.out); err != nil {
		return data, err
	}
	return data, nil
}

// logout ends the session. Safe to call when already logged out.
func (a *App) logout() {
	a.sess.Logout()
	fmt.Fprintln(a.out, "Logged out")
}

// refresh forces the next records read to hit the server.
func (a *App) refresh() {
	a.cache.Invalidate(keyMyRecords)
	fmt.Fprintln(a.out, "Records will be reloaded on next view")
}

// errMessage unwraps the user-facing message from a failed request:
// the server-provided text when present, the full error otherwise.
func errMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
