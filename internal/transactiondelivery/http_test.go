package transactiondelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/middleware"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/randompkg"
	"github.com/go-teller/branch-bank/pkg/tokenpkg"
	"github.com/go-teller/branch-bank/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, service Service, tokenMaker tokenpkg.Maker) *gin.Engine {
	t.Helper()

	handler := NewHandler(service)

	server := gin.New()
	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authRoutes.POST("/transactions", handler.Process)
	authRoutes.GET("/customers/:id/transactions", handler.History)

	return server
}

func TestProcess(t *testing.T) {
	tellerName := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	customer := domain.Customer{
		ID:            1,
		AccountNumber: randompkg.AccountNumber(),
		Name:          randompkg.Owner(),
		Balance:       "900",
		AccountType:   domain.AccountTypeChecking,
	}

	result := domain.TransactionResult{
		Transaction: domain.Transaction{
			TransactionID: "TXN2403070042",
			CustomerID:    customer.ID,
			Kind:          domain.TransactionWithdrawal,
			Amount:        "100",
			BalanceAfter:  "900",
			Method:        domain.MethodCash,
			Status:        domain.StatusCompleted,
			PerformedBy:   tellerName,
		},
		Customer: customer,
	}

	type requestBody struct {
		CustomerID       int64  `json:"customer_id"`
		Kind             string `json:"kind"`
		Amount           string `json:"amount"`
		WithdrawalMethod string `json:"withdrawal_method,omitempty"`
	}

	okBody := requestBody{
		CustomerID:       customer.ID,
		Kind:             "withdrawal",
		Amount:           "100",
		WithdrawalMethod: "cash",
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(t *testing.T, body *bytes.Buffer)
	}{
		{
			name:        "OK",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				wantArg := domain.ProcessTransactionParams{
					CustomerID:  customer.ID,
					Kind:        domain.TransactionWithdrawal,
					Amount:      "100",
					Method:      domain.MethodCash,
					PerformedBy: tellerName,
				}

				service.EXPECT().
					Process(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(result, nil)
			},
			wantStatusCode: http.StatusCreated,
			checkData: func(t *testing.T, body *bytes.Buffer) {
				var got struct {
					Data struct {
						Transaction domain.Transaction `json:"transaction"`
						NewBalance  string             `json:"new_balance"`
					} `json:"data"`
				}

				if err := json.NewDecoder(body).Decode(&got); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(result.Transaction, got.Data.Transaction, compareCreatedAt); diff != "" {
					t.Errorf("transaction mismatch (-want +got):\n%s", diff)
				}

				if got.Data.NewBalance != customer.Balance {
					t.Errorf("new_balance = %v, want %v", got.Data.NewBalance, customer.Balance)
				}
			},
		},
		{
			name:        "NoAuthorization",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
		{
			name: "InvalidKind",
			requestBody: requestBody{
				CustomerID: customer.ID,
				Kind:       "transfer",
				Amount:     "100",
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Kind field must be one of: deposit withdrawal",
		},
		{
			name: "MissingAmount",
			requestBody: requestBody{
				CustomerID: customer.ID,
				Kind:       "deposit",
			},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount field is required",
		},
		{
			name:        "CustomerNotFound",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, domain.ErrCustomerNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrCustomerNotFound.Error(),
		},
		{
			name:        "InsufficientFunds",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name:        "LimitExceeded",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{},
						fmt.Errorf("reached the maximum of 3 cash withdrawals per hour: %w", domain.ErrLimitExceeded))
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "reached the maximum of 3 cash withdrawals per hour: " + domain.ErrLimitExceeded.Error(),
		},
		{
			name:        "StorageUnavailable",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, errorspkg.ErrUnavailable)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      errorspkg.ErrUnavailable.Error(),
		},
		{
			name:        "InternalError",
			requestBody: okBody,
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newTestServer(t, service, tokenMaker)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err := tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, request) returned error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", w.Code, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusCreated {
				res := web.Response{}
				if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if res.Error != tc.wantError {
					t.Errorf("res.Error = %q, want %q", res.Error, tc.wantError)
				}

				return
			}

			tc.checkData(t, w.Body)
		})
	}
}

func TestHistory(t *testing.T) {
	tellerName := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	transactions := []domain.Transaction{
		{TransactionID: "TXN2403070002", CustomerID: 1, Kind: domain.TransactionWithdrawal, Amount: "50"},
		{TransactionID: "TXN2403070001", CustomerID: 1, Kind: domain.TransactionDeposit, Amount: "100"},
	}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			url:  "/customers/1/transactions?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					History(gomock.Any(), gomock.Eq(int64(1)), gomock.Eq(int32(10)), gomock.Eq(int32(1))).
					Times(1).
					Return(transactions, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "MissingPageParams",
			url:  "/customers/1/transactions",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageID field is required",
		},
		{
			name: "PageSizeTooLarge",
			url:  "/customers/1/transactions?page_id=1&page_size=1000",
			buildStubs: func(service *MockService) {
				service.EXPECT().History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PageSize field must be at most 100",
		},
		{
			name: "StorageUnavailable",
			url:  "/customers/1/transactions?page_id=1&page_size=10",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					History(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrUnavailable)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      errorspkg.ErrUnavailable.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			server := newTestServer(t, service, tokenMaker)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, tellerName, time.Minute)
			if err != nil {
				t.Fatalf("middleware.AddAuthorization returned error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", w.Code, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusOK {
				res := web.Response{}
				if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
					t.Fatalf("Decoding response body error: %v", err)
				}

				if res.Error != tc.wantError {
					t.Errorf("res.Error = %q, want %q", res.Error, tc.wantError)
				}

				return
			}

			var got struct {
				Data struct {
					Transactions []domain.Transaction `json:"transactions"`
				} `json:"data"`
			}

			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(transactions, got.Data.Transactions, compareCreatedAt); diff != "" {
				t.Errorf("transactions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
