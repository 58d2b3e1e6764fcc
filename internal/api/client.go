package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"quicktransfer/internal/config"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"
)

// Client talks to a quicktransfer file server.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	password   string

	loginMu  sync.Mutex
	loggedIn bool
}

// Option configures a Client.
type Option func(*Client)

// WithPassword makes the client log in before its first request.
func WithPassword(password string) Option {
	return func(c *Client) {
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its cookie jar, if
// any, must be set by the caller.
func WithHTTPClient(hc *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the server at baseURL. No request
// timeout is set; requests end when the server answers or the context is
// cancelled.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.NewConfigError("invalid server URL", baseURL, errors.InvalidConfig, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		httpClient: &nethttp.Client{Jar: jar},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig builds a client from the client section of cfg.
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	var opts []Option
	if cfg.Client.Password != "" {
		opts = append(opts, WithPassword(cfg.Client.Password))
	}
	return NewClient(cfg.Client.URL, opts...)
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FileURL returns the URL serving the raw bytes of path.
func (c *Client) FileURL(path string) string {
	return c.baseURL + "/files/" + escapePath(path)
}

// escapePath escapes each segment of a slash separated path.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Login authenticates the session with the configured password.
func (c *Client) Login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) error {
	form := url.Values{"password": {c.password}}
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError("login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewHTTPError("login failed", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	c.loggedIn = true
	return nil
}

func (c *Client) ensureLogin(ctx context.Context) error {
	if c.password == "" {
		return nil
	}
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.loggedIn {
		return nil
	}
	return c.loginLocked(ctx)
}

// do sends req after making sure the session is logged in.
func (c *Client) do(req *nethttp.Request, op string) (*nethttp.Response, error) {
	if err := c.ensureLogin(req.Context()); err != nil {
		return nil, err
	}

	log.Debugf("%s %s", req.Method, req.URL.Redacted())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.LogWithFields(log.F("op", op), log.F("error", err)).Debug("request failed")
		return nil, errors.NewNetworkError(op, err)
	}
	return resp, nil
}

// List fetches the entries of the directory at path.
func (c *Client) List(ctx context.Context, path string) (*Listing, error) {
	endpoint := c.baseURL + "/api/list?" + url.Values{"path": {path}}.Encode()
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req, "list")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.NewHTTPError("list failed", resp.StatusCode, "")
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return &listing, nil
}

// UploadFile is one file handed to Upload.
type UploadFile struct {
	Name string
	Body io.Reader
}

// OpenLocalFiles opens paths for upload. The returned function closes
// every opened file.
func OpenLocalFiles(paths []string) ([]UploadFile, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	files := make([]UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, func() {}, errors.NewFileError("cannot open file", p, errors.FileAccessDenied, err)
		}
		info, err := f.Stat()
		if err != nil || info.IsDir() {
			f.Close()
			closeAll()
			return nil, func() {}, errors.NewFileError("not a regular file", p, errors.InvalidPath, err)
		}
		opened = append(opened, f)
		files = append(files, UploadFile{Name: filepath.Base(p), Body: f})
	}
	return files, closeAll, nil
}

// Upload sends files in a single multipart request into the directory
// dir ("" is the storage root).
func (c *Client) Upload(ctx context.Context, dir string, files []UploadFile) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, dir, files)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	// Closing the read side stops the writer if the server answers early.
	defer pr.Close()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req, "network error")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		var body ErrorBody
		msg := nethttp.StatusText(resp.StatusCode)
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != "" {
			msg = body.Error
		}
		return nil, errors.NewHTTPError("upload failed", resp.StatusCode, msg)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload result: %w", err)
	}
	return &result, nil
}

func writeUploadForm(mw *multipart.Writer, dir string, files []UploadFile) error {
	if dir != "" {
		if err := mw.WriteField(UploadPathField, dir); err != nil {
			return err
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(UploadField, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	return nil
}

// Delete removes the file at path. The server moves it into its trash.
func (c *Client) Delete(ctx context.Context, path string) (*DeleteResult, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL+"/delete/"+escapePath(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "delete")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewHTTPError("delete failed", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result DeleteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode delete result: %w", err)
	}
	log.Debugf("deleted %s: %s", path, result.Message)
	return &result, nil
}

// Open streams the raw bytes of the file at path. The caller closes the
// returned body. size is -1 when the server does not announce it.
func (c *Client) Open(ctx context.Context, path string) (body io.ReadCloser, size int64, err error) {
	return c.OpenURL(ctx, c.FileURL(path))
}

// OpenURL is Open for a URL previously built with FileURL.
func (c *Client) OpenURL(ctx context.Context, fileURL string) (io.ReadCloser, int64, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, fileURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.do(req, "download")
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, 0, errors.NewHTTPError("download failed", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, resp.ContentLength, nil
}

// DownloadTo saves fileURL as destDir/filename and returns the written
// path. Existing files are not overwritten; a numbered name is used
// instead. progress, when not nil, receives a copy of every byte.
func (c *Client) DownloadTo(ctx context.Context, fileURL, filename, destDir string, progress io.Writer) (string, error) {
	body, _, err := c.OpenURL(ctx, fileURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.NewFileError("cannot create download directory", destDir, errors.FileCreateFailed, err)
	}
	if filename == "" {
		filename = nameFromURL(fileURL)
	}
	target := filepath.Join(destDir, AvailableName(destDir, filepath.Base(filename)))

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", errors.NewFileError("cannot create file", target, errors.FileCreateFailed, err)
	}

	var src io.Reader = body
	if progress != nil {
		src = io.TeeReader(body, progress)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(target)
		return "", errors.NewNetworkError("download", err)
	}
	if err := out.Close(); err != nil {
		return "", errors.NewFileError("cannot write file", target, errors.FileOperationFailed, err)
	}
	return target, nil
}

func nameFromURL(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "download"
	}
	name := filepath.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}

// AvailableName returns name, or "stem (n).ext" with the smallest n that
// does not exist yet in dir.
func AvailableName(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
	}
}
