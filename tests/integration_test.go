package tests

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/handler"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/middleware"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
)

const testBaseURL = "http://localhost:8080"

// TestMain настраивает тестовые контейнеры
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEnv хранит окружение для интеграционных тестов
type TestEnv struct {
	router         *gin.Engine
	userRepo       repository.UserRepository
	clickProc      service.ClickProcessor
	dbContainer    testcontainers.Container
	redisContainer testcontainers.Container
	db             *repository.PostgresDB
	redis          *repository.RedisDB
}

// setupTestEnv создаёт тестовое окружение с PostgreSQL и Redis контейнерами
func setupTestEnv(t *testing.T) *TestEnv {
	ctx := t.Context()

	// Запускаем контейнер PostgreSQL
	dbContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("shortener"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	// Запускаем контейнер Redis
	redisContainer, err := redis.Run(ctx,
		"redis:7-alpine",
	)
	require.NoError(t, err)

	// Получаем данные для подключения
	dbHost, err := dbContainer.Host(ctx)
	require.NoError(t, err)
	dbPort, err := dbContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	// Создаём подключение к БД
	db, err := repository.NewPostgresDB(config.DBConfig{
		Host:     dbHost,
		Port:     dbPort.Port(),
		User:     "user",
		Password: "password",
		Name:     "shortener",
	})
	require.NoError(t, err)
	require.NoError(t, db.InitSchema(ctx))

	// Создаём подключение к Redis
	redisClient, err := repository.NewRedisClient(config.RedisConfig{
		Host: redisHost,
		Port: redisPort.Port(),
	})
	require.NoError(t, err)

	logger := zap.NewNop()

	// Инициализируем репозитории и сервисы
	linkRepo := repository.NewLinkRepository(db)
	userRepo := repository.NewUserRepository(db)
	clickRepo := repository.NewClickRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	jwtCfg := config.JWTConfig{
		Secret:   "integration-secret",
		Issuer:   "link-shortener",
		Audience: "link-shortener-clients",
		TTL:      time.Hour,
	}

	linkService := service.NewLinkService(linkRepo, userRepo, cacheRepo, service.NewKeyGenerator(), testBaseURL, logger)
	userService := service.NewUserService(userRepo, linkRepo)
	authService := service.NewAuthService(userRepo, jwtCfg)

	clickProc := service.NewClickProcessor(clickRepo, logger)
	clickProc.Start()

	// Настраиваем роутер с middleware
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 100, // Высокий лимит для тестов
		BurstSize:         200,
		CleanupInterval:   time.Minute,
	})

	router := handler.NewRouter(handler.RouterDeps{
		LinkService:    linkService,
		UserService:    userService,
		AuthService:    authService,
		ClickProcessor: clickProc,
		HealthHandler:  handler.NewHealthHandler(db, redisClient),
		RateLimiter:    rateLimiter,
		JWTConfig:      jwtCfg,
		Logger:         logger,
	})

	return &TestEnv{
		router:         router,
		userRepo:       userRepo,
		clickProc:      clickProc,
		dbContainer:    dbContainer,
		redisContainer: redisContainer,
		db:             db,
		redis:          redisClient,
	}
}

// teardown очищает ресурсы после теста
func (env *TestEnv) teardown(t *testing.T) {
	env.clickProc.Stop()
	env.db.Close()
	env.redis.Close()

	ctx := t.Context()
	if env.dbContainer != nil {
		env.dbContainer.Terminate(ctx)
	}
	if env.redisContainer != nil {
		env.redisContainer.Terminate(ctx)
	}
}

// authenticate сеет пользователя напрямую в БД и получает токен через API
func (env *TestEnv) authenticate(t *testing.T) string {
	t.Helper()

	err := env.userRepo.Create(t.Context(), &models.User{
		FullName: "Integration User",
		Username: "integration",
		Password: "password123",
	})
	require.NoError(t, err)

	body, _ := json.Marshal(models.AuthenticateInput{
		Username: "integration",
		Password: "password123",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/Account/Authenticate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthenticateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (env *TestEnv) createLink(t *testing.T, token string, input models.CreateLinkInput) models.Link {
	t.Helper()

	body, _ := json.Marshal(input)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var link models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	return link
}

// TestIntegration_AuthenticateAndCreate тестирует выдачу токена и создание
// ссылки от имени пользователя
func TestIntegration_AuthenticateAndCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)

	link := env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/integration",
		ExpiredAt:   time.Now().Add(time.Hour),
	})

	assert.NotEmpty(t, link.ID)
	assert.NotEmpty(t, link.CreatedBy)
	assert.Contains(t, link.ShortenedURL, testBaseURL+"/")
	assert.Equal(t, int64(0), link.ClickCount)
}

// TestIntegration_ProtectedWithoutToken защищённые маршруты без токена
// отклоняются
func TestIntegration_ProtectedWithoutToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/links", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestIntegration_RedirectAndCount тестирует редирект и рост счётчика
func TestIntegration_RedirectAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)
	link := env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/redirect-test",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "redir",
	})

	// Редирект на оригинальный URL
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/redir", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, link.OriginalURL, w.Header().Get("Location"))

	// GeyByKey считается переходом и возвращает актуальный счётчик
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/links/GeyByKey?key=redir", nil)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, int64(2), fetched.ClickCount)
}

// TestIntegration_ExpiredLink просроченная ссылка даёт 400 и не считается
func TestIntegration_ExpiredLink(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)
	env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/expired-test",
		ExpiredAt:   time.Now().Add(-time.Minute),
		SpecialKey:  "stale",
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/stale", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "link has expired")
}

// TestIntegration_SpecialKeyConflict повторный занятый ключ даёт 400
func TestIntegration_SpecialKeyConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)
	env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/first",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "occupied",
	})

	body, _ := json.Marshal(models.CreateLinkInput{
		OriginalURL: "https://example.com/second",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "occupied",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already in use")
}

// TestIntegration_ClickStats тестирует аудит переходов через worker pool
func TestIntegration_ClickStats(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)
	link := env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/stats-test",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "stats",
	})

	// Симулируем несколько кликов (вызовом редиректа)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/stats", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("192.168.1.%d", i))
		env.router.ServeHTTP(w, req)
	}

	// Даём worker pool время обработать клики
	time.Sleep(500 * time.Millisecond)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/links/"+link.ID+"/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.ClickStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, link.ID, stats.LinkID)
	// Примечание: клики могут быть не полностью обработаны в тестовой среде
	assert.LessOrEqual(t, stats.TotalClicks, int64(5))
}

// TestIntegration_MostClickedLinks агрегат отдаёт ссылки по убыванию кликов
func TestIntegration_MostClickedLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	token := env.authenticate(t)
	env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/quiet",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "quiet",
	})
	popular := env.createLink(t, token, models.CreateLinkInput{
		OriginalURL: "https://example.com/popular",
		ExpiredAt:   time.Now().Add(time.Hour),
		SpecialKey:  "popular",
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/popular", nil)
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusFound, w.Code)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/links/MostClickedLinks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var links []models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	require.Len(t, links, 2)
	assert.Equal(t, popular.ID, links[0].ID)
	assert.Equal(t, "Integration User", links[0].CreatedUser)
}

// TestIntegration_HealthCheck тестирует endpoint проверки здоровья
func TestIntegration_HealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	env := setupTestEnv(t)
	defer env.teardown(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "up", resp["postgres"])
	assert.Equal(t, "up", resp["redis"])
}
