package secrets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/services/auth"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
	"github.com/MarcGrol/workersdeploy/services/secrets/secretevents"
)

const exampleSecretBody = `{"repo":"octo/widget","secret_key":"CLOUDFLARE_API_TOKEN","secret_value":"cf-token"}`

func TestSecret(t *testing.T) {

	t.Run("Missing field is rejected before auth", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, _, _ := setup(t, ctrl)

		// when
		response := do(t, router, "/secret", `{"repo":"octo/widget","secret_key":"CLOUDFLARE_API_TOKEN"}`, "")

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "missing secret_value")
	})

	t.Run("Repo outside owner/name is rejected before auth", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, _, _ := setup(t, ctrl)

		// when
		response := do(t, router, "/secret", `{"repo":"octo/../../user/keys?x=","secret_key":"CLOUDFLARE_API_TOKEN","secret_value":"cf-token"}`, "")

		// then
		assert.Equal(t, 400, response.Code)
		assert.Contains(t, response.Body.String(), "is not of the form owner/name")
	})

	t.Run("Invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, _, _ := setup(t, ctrl)

		response := do(t, router, "/secret", `{"repo":`, "")

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Without token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, validator, _ := setup(t, ctrl)

		// given
		validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(auth.Validation{Authed: false, ClearCookie: true})

		// when
		response := do(t, router, "/secret", exampleSecretBody, "")

		// then
		assert.Equal(t, 401, response.Code)
		assert.Equal(t, "Authed-User=null; Max-Age=0", response.Header().Get("Set-Cookie"))
	})

	t.Run("With authorization header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, github, _, publisher := setup(t, ctrl)

		// given
		github.EXPECT().GetPublicKey(gomock.Any(), "gho_hdr", "octo/widget").Return(githubapi.PublicKey{KeyID: "kid1", Key: "cHVibGlj"}, nil)
		github.EXPECT().PutSecret(gomock.Any(), "gho_hdr", "octo/widget", "CLOUDFLARE_API_TOKEN", "sealed(cHVibGlj,cf-token)", "kid1").Return(nil)
		publisher.EXPECT().Publish(gomock.Any(), secretevents.TopicName, secretevents.SecretStored{
			Repo: "octo/widget",
			Name: "CLOUDFLARE_API_TOKEN",
		}).Return(nil)

		// when
		response := do(t, router, "/secret", exampleSecretBody, "token gho_hdr")

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "Secret CLOUDFLARE_API_TOKEN stored on octo/widget")
	})

	t.Run("With session cookie", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, github, validator, publisher := setup(t, ctrl)

		// given
		validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(auth.Validation{Authed: true, AccessToken: "gho_cookie"})
		github.EXPECT().GetPublicKey(gomock.Any(), "gho_cookie", "octo/widget").Return(githubapi.PublicKey{KeyID: "kid1", Key: "cHVibGlj"}, nil)
		github.EXPECT().PutSecret(gomock.Any(), "gho_cookie", "octo/widget", "CLOUDFLARE_API_TOKEN", gomock.Any(), "kid1").Return(nil)
		publisher.EXPECT().Publish(gomock.Any(), secretevents.TopicName, gomock.Any()).Return(nil)

		// when
		response := do(t, router, "/secret", exampleSecretBody, "")

		// then
		assert.Equal(t, 200, response.Code)
	})

	githubFailures := []struct {
		githubStatus   int
		expectedStatus int
	}{
		{githubStatus: 401, expectedStatus: 403},
		{githubStatus: 403, expectedStatus: 403},
		{githubStatus: 404, expectedStatus: 404},
		{githubStatus: 422, expectedStatus: 400},
		{githubStatus: 502, expectedStatus: 500},
	}
	for _, tc := range githubFailures {
		t.Run(fmt.Sprintf("Github answers %d", tc.githubStatus), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			router, github, _, _ := setup(t, ctrl)

			// given
			github.EXPECT().GetPublicKey(gomock.Any(), "gho_hdr", "octo/widget").Return(githubapi.PublicKey{}, &githubapi.Error{
				Operation:  "get-public-key",
				StatusCode: tc.githubStatus,
			})

			// when
			response := do(t, router, "/secret", exampleSecretBody, "Bearer gho_hdr")

			// then
			assert.Equal(t, tc.expectedStatus, response.Code)
		})
	}
}

func TestVariable(t *testing.T) {

	t.Run("Missing name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, _, _ := setup(t, ctrl)

		response := do(t, router, "/variable", `{"repo":"octo/widget","value":"x"}`, "")

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Repo with query is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, _, _, _ := setup(t, ctrl)

		response := do(t, router, "/variable", `{"repo":"octo/widget?ref=x","name":"SITE_NAME","value":"x"}`, "token gho_hdr")

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Store variable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, github, _, publisher := setup(t, ctrl)

		// given
		github.EXPECT().PutVariable(gomock.Any(), "gho_hdr", "octo/widget", "SITE_NAME", "My site").Return(nil)
		publisher.EXPECT().Publish(gomock.Any(), secretevents.TopicName, secretevents.VariableStored{
			Repo: "octo/widget",
			Name: "SITE_NAME",
		}).Return(fmt.Errorf("outbox down"))

		// when
		response := do(t, router, "/variable", `{"repo":"octo/widget","name":"SITE_NAME","value":"My site"}`, "token gho_hdr")

		// then
		assert.Equal(t, 200, response.Code)
	})

	t.Run("Github rejects variable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		router, github, _, _ := setup(t, ctrl)

		github.EXPECT().PutVariable(gomock.Any(), "gho_hdr", "octo/widget", "SITE NAME", "x").Return(&githubapi.Error{StatusCode: 422})

		response := do(t, router, "/variable", `{"repo":"octo/widget","name":"SITE NAME","value":"x"}`, "token gho_hdr")

		assert.Equal(t, 400, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *githubapi.MockClient, *auth.MockSessionValidator, *mypublisher.MockPublisher) {
	router := mux.NewRouter()
	github := githubapi.NewMockClient(ctrl)
	validator := auth.NewMockSessionValidator(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewService(github, validator, publisher)
	sut.service.seal = func(publicKey string, value string) (string, error) {
		return fmt.Sprintf("sealed(%s,%s)", publicKey, value), nil
	}

	publisher.EXPECT().CreateTopic(gomock.Any(), secretevents.TopicName).Return(nil)

	err := sut.RegisterEndpoints(context.TODO(), router)
	assert.NoError(t, err)

	return router, github, validator, publisher
}

func do(t *testing.T, router *mux.Router, path string, body string, authorization string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	request.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}
