package handler_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/handler"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
	"github.com/gusti-hub/mlb-borneo-be/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDashboardRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.DashboardService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	dashboardSvc := service.NewDashboardService(repos.Dashboard, zap.NewNop())
	h := handler.NewDashboardHandler(dashboardSvc, repos.Reference)

	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api/v1")
	api.GET("/dashboard/data", h.GetData)
	api.GET("/dashboard/results/:type", h.GetResult)
	api.POST("/dashboard/calculate", h.Calculate)
	api.GET("/dashboard/pic/:picId/performance", h.PICPerformance)
	return r, db, dashboardSvc
}

func TestGetDataBeforeAnyCalculation(t *testing.T) {
	r, _, _ := setupDashboardRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/dashboard/data", nil, testutil.DefaultTestToken())
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})

	for _, key := range []string{"pic_points", "shipper_trend", "loading_port_trend"} {
		items, ok := data[key].([]interface{})
		if !ok {
			t.Fatalf("%s is %T, want an array even before the first run", key, data[key])
		}
		if len(items) != 0 {
			t.Errorf("%s = %v, want empty", key, items)
		}
	}
	if data["calculation_date"] == nil {
		t.Error("calculation_date missing from response")
	}
}

func TestCalculateThenGetData(t *testing.T) {
	r, db, _ := setupDashboardRouter(t)
	testutil.SeedTestPIC(t, db, "Alda", "ALDA")
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST", "/api/v1/dashboard/calculate", nil, token)
	if w.Code != 200 {
		t.Fatalf("calculate status = %d, body %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/dashboard/data", nil, token)
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	points := data["pic_points"].([]interface{})
	if len(points) != 1 {
		t.Fatalf("pic_points rows = %d, want 1", len(points))
	}
	row := points[0].(map[string]interface{})
	if row["pic_code"] != "ALDA" {
		t.Errorf("pic_code = %v", row["pic_code"])
	}
	if row["points"].(float64) != 0 {
		t.Errorf("points = %v, want 0 for an idle PIC", row["points"])
	}
}

func TestGetResultMissingSnapshotIs404(t *testing.T) {
	r, _, _ := setupDashboardRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "GET", "/api/v1/dashboard/results/"+entity.ResultTypePICPoints, nil, token)
	if w.Code != 404 {
		t.Errorf("missing snapshot status = %d, want 404", w.Code)
	}

	w = testutil.DoRequest(r, "GET", "/api/v1/dashboard/results/bogus", nil, token)
	if w.Code != 400 {
		t.Errorf("unknown type status = %d, want 400", w.Code)
	}
}

func TestPICPerformanceUnknownPIC(t *testing.T) {
	r, _, _ := setupDashboardRouter(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/dashboard/pic/ghost/performance", nil, testutil.DefaultTestToken())
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
