package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options are the flags shared by every command that calls the backend
type Options struct {
	Server  string
	Timeout time.Duration
	Token   string
}

// apiError is the error body every route answers with
type apiError struct {
	Error         string `json:"error"`
	Details       string `json:"details"`
	ChatvoltError string `json:"chatvoltError"`
	Code          string `json:"code"`
}

// postJSON sends body to path and pretty-prints the answer to out
func postJSON(ctx context.Context, opts *Options, path string, body any, out io.Writer) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(opts.Server, "/")+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg := fmt.Sprintf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
			if apiErr.Details != "" {
				msg += ": " + apiErr.Details
			}
			if apiErr.ChatvoltError != "" {
				msg += "\nprovider said: " + apiErr.ChatvoltError
			}
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		_, err = out.Write(raw)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(out)
	return err
}
