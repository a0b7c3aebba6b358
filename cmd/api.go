package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
)

// identityHeaders merges the headers of --curl with the session's identity headers when --auth is set.
func (r *Runner) identityHeaders(cmd *cli.Command) (http.Header, error) {
	h := http.Header{}
	if path := cmd.String("curl"); path != "" {
		c, err := shared.ParseCurlFile(path)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("using curl headers", "file", path, "count", len(c.Headers))
		h = c.Header()
	}
	if cmd.Bool("auth") && r.app != nil {
		s, _ := r.app.Auth.Session()
		for k, vs := range services.AuthHeaders(r.config.API.AuthHeader, s) {
			h[k] = vs
		}
	}
	return h, nil
}

func (r *Runner) writeResponse(resp *services.APIResponse, method, path string, pretty bool) error {
	if err := resp.Err(method, path); err != nil {
		return err
	}
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	if err := r.writeBytes(resp.Body); err != nil {
		return err
	}
	return r.writeBytes([]byte("\n"))
}

// APIGet makes a direct GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	header, err := r.identityHeaders(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path, header)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, http.MethodGet, path, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request to the backend
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
	}

	header, err := r.identityHeaders(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data), header)
	if err != nil {
		return err
	}
	return r.writeResponse(resp, http.MethodPost, path, true)
}
