// Package tellerdelivery manages delivery layer of tellers.
package tellerdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/configpkg"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/randompkg"
)

var testConfig configpkg.Config

func TestMain(m *testing.M) {
	testConfig = configpkg.Config{
		TokenSymmetricKey:   randompkg.String(32),
		AccessTokenDuration: time.Minute,
	}

	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func randomTeller(t *testing.T) (domain.TellerWithoutPassword, string) {
	t.Helper()

	password := randompkg.String(10)

	teller := domain.TellerWithoutPassword{
		Username: randompkg.Owner(),
		FullName: randompkg.Owner(),
		Email:    randompkg.Email(),
		Branch:   "Main Branch",
	}

	return teller, password
}

func TestCreateAPI(t *testing.T) {
	testTeller, password := randomTeller(t)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(tellerService *MockService, sessionMaker *MockSessionMaker)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(),
						gomock.Eq(testTeller.Username),
						gomock.Eq(password),
						gomock.Eq(testTeller.FullName),
						gomock.Eq(testTeller.Email),
						gomock.Eq(testTeller.Branch)).
					Times(1).
					Return(testTeller, nil)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateSessionParams{})).
					Times(1).
					Return("token", time.Now().Add(time.Minute), domain.Session{}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "InvalidUsername",
			requestBody: gin.H{
				"username": "teller&%",
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ShortPassword",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": "xyz",
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "MissingBranch",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(0)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "UniqueViolationUsername",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TellerWithoutPassword{}, domain.ErrUsernameAlreadyExists)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "CreateInternalError",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TellerWithoutPassword{}, errorspkg.ErrInternal)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "SessionInternalError",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
				"fullname": testTeller.FullName,
				"email":    testTeller.Email,
				"branch":   testTeller.Branch,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(testTeller, nil)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return("", time.Time{}, domain.Session{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tellerService := NewMockService(ctrl)
			sessionMaker := NewMockSessionMaker(ctrl)
			tc.buildStubs(tellerService, sessionMaker)

			handler := NewHandler(tellerService, sessionMaker)

			server := gin.New()
			url := "/tellers"
			server.POST(url, handler.Create)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestLoginAPI(t *testing.T) {
	testTeller, password := randomTeller(t)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(tellerService *MockService, sessionMaker *MockSessionMaker)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					CheckPassword(gomock.Any(), gomock.Eq(testTeller.Username), gomock.Eq(password)).
					Times(1).
					Return(testTeller, nil)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateSessionParams{})).
					Times(1).
					Return("token", time.Now().Add(time.Minute), domain.Session{}, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name: "TellerNotFound",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TellerWithoutPassword{}, domain.ErrTellerNotFound)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "WrongPassword",
			requestBody: gin.H{
				"username": testTeller.Username,
				"password": password,
			},
			buildStubs: func(tellerService *MockService, sessionMaker *MockSessionMaker) {
				tellerService.EXPECT().
					CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TellerWithoutPassword{}, domain.ErrWrongPassword)

				sessionMaker.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tellerService := NewMockService(ctrl)
			sessionMaker := NewMockSessionMaker(ctrl)
			tc.buildStubs(tellerService, sessionMaker)

			handler := NewHandler(tellerService, sessionMaker)

			server := gin.New()
			url := "/tellers/login"
			server.POST(url, handler.Login)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}
