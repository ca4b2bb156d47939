package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/Rashad2003/Student-Attendance-Management/apps/api/echo"
	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
	emailsvc "github.com/Rashad2003/Student-Attendance-Management/services/email"
	logsvc "github.com/Rashad2003/Student-Attendance-Management/services/logger"
	smssvc "github.com/Rashad2003/Student-Attendance-Management/services/sms"
	inmemdb "github.com/Rashad2003/Student-Attendance-Management/storage/database/inmem"
)

var (
	conf     *core.Config
	db       *inmemdb.DB
	app      *echoapi.Server
	metrics  *echoapi.Metrics
	usrRepo  user.Repository
	stdRepo  student.Repository
	smsMock  *smssvc.ServiceMock
	mailMock *emailsvc.ServiceMock

	errMissingToken = errorResponse{Message: "missing or malformed jwt"}
	errForbidden    = errorResponse{Message: "permission denied"}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()

	// set up DB & repos
	db = inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	stdRepo = inmemdb.NewStudentRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(io.Discard, "API", conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	smsMock = smssvc.NewServiceMock()
	mailMock = emailsvc.NewServiceMock(conf)
	metrics = echoapi.NewMetrics()

	usrSvc := user.NewService(usrRepo)
	stdSvc := student.NewService(stdRepo)
	attSvc := attendance.NewService(attRepo, stdSvc, attendance.Options{
		Periods:         conf.Attendance.Periods,
		MaxMergeRetries: conf.Attendance.MaxMergeRetries,
		OnConflict:      metrics.MergeConflicts.Inc,
	})

	// set up server
	app = echoapi.NewServer(conf, nil /* shutdown */, &echoapi.Deps{
		Logger:        logger,
		Metrics:       metrics,
		UserSvc:       usrSvc,
		StudentSvc:    stdSvc,
		AttendanceSvc: attSvc,
		NotifySvc:     notify.NewService(stdSvc, smsMock, mailMock),
		Validate:      validate,
		Translator:    translator,
	})

	os.Exit(m.Run())
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type dataResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
