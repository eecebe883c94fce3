package api

import "context"

// Login submits admin credentials. A nil error means the server accepted
// them; rejected credentials surface as a *StatusError.
func (c *Client) Login(ctx context.Context, username, password string) error {
	_, err := c.post(ctx, "/admin/login", LoginInput{Username: username, Password: password})
	return err
}
