package request

// Login is the body of POST /api/auth/login. A missing password is a
// wrong password, not a malformed request.
type Login struct {
	Password string `json:"password"`
}

// Redeploy is the body of POST /api/vercel/deploy.
type Redeploy struct {
	ProjectID string `json:"projectId" validate:"required"`
}

// TriggerWorkflow is the body of POST /api/github/trigger.
type TriggerWorkflow struct {
	Repo     string         `json:"repo" validate:"required"`
	Workflow string         `json:"workflow"`
	Ref      string         `json:"ref"`
	Inputs   map[string]any `json:"inputs"`
	SendPush *bool          `json:"sendPush"`
}

// SetMaintenance is the body of POST /api/projects/maintenance.
type SetMaintenance struct {
	ProjectID   string  `json:"projectId" validate:"required"`
	ProjectName string  `json:"projectName" validate:"required"`
	Enabled     *bool   `json:"enabled"`
	Message     *string `json:"message"`
}

// SendPush is the body of POST /api/fcm/send.
type SendPush struct {
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
}

// RegisterToken is the body of POST /api/fcm/register.
type RegisterToken struct {
	Token string `json:"token" validate:"required"`
}
