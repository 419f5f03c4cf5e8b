package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"labelcheck/models"
	"labelcheck/pkg/ocr"
	"labelcheck/pkg/verify"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/verify", verifyLabelHandler)
	authGroup.GET("/verifications", listVerificationsHandler)
	authGroup.GET("/verifications/:id", getVerificationHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Password); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "already exists") {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registered"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	var roleName string
	if user.RoleID != nil {
		var role models.Role
		if err := db.First(&role, *user.RoleID).Error; err == nil {
			roleName = role.Name
		}
	}
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	var user models.User
	if err := db.Where("username = ?", unameVal.(string)).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// verifyLabelHandler runs the whole pipeline for one uploaded label photo:
// multi-rotation OCR, per-field matching, persistence of the audit record.
func verifyLabelHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	claims := verify.Claims{
		BrandName:      strings.TrimSpace(c.PostForm("brand_name")),
		ProductClass:   strings.TrimSpace(c.PostForm("product_class")),
		AlcoholContent: strings.TrimSpace(c.PostForm("alcohol_content")),
		NetContents:    strings.TrimSpace(c.PostForm("net_contents")),
	}
	if claims.BrandName == "" || claims.ProductClass == "" || claims.AlcoholContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand_name, product_class and alcohol_content are required"})
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded image"})
		return
	}
	defer f.Close()
	imageBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded image"})
		return
	}

	id := uuid.NewString()
	storePath := filepath.Join(uploadBaseDir(), id+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	if err := os.WriteFile(storePath, imageBytes, 0644); err != nil {
		logrus.Warnf("failed to retain label image %s: %v", storePath, err)
		storePath = ""
	}

	ctx, cancel := contextWithVerifyTimeout(c.Request.Context())
	defer cancel()
	engine, err := ocr.SharedEngine(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "ocr engine unavailable"})
		return
	}
	start := time.Now()
	merged, err := ocr.ProcessWithRotations(ctx, engine, imageBytes, ocr.Options{Angles: rotationAngles()})
	if err != nil {
		if errors.Is(err, ocr.ErrTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "ocr timed out"})
			return
		}
		logrus.Errorf("ocr pipeline failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "ocr failed"})
		return
	}
	result := verify.Verify(claims, merged, verify.DefaultConfig())
	duration := time.Since(start)

	claimsJSON, _ := json.Marshal(claims)
	fieldsJSON, _ := json.Marshal(result.Fields)
	rec := models.Verification{
		ID:            id,
		UserID:        user.ID,
		ImageName:     fileHeader.Filename,
		StorePath:     storePath,
		OverallStatus: result.OverallStatus,
		Claims:        string(claimsJSON),
		Fields:        string(fieldsJSON),
		RawText:       result.RawText,
		DurationMS:    duration.Milliseconds(),
	}
	if err := db.Create(&rec).Error; err != nil {
		logrus.Warnf("failed to persist verification %s: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"result":      result,
		"duration_ms": duration.Milliseconds(),
	})
}

func listVerificationsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var recs []models.Verification
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(limit).Find(&recs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		out = append(out, gin.H{
			"id":             r.ID,
			"created_at":     r.CreatedAt,
			"image_name":     r.ImageName,
			"overall_status": r.OverallStatus,
			"duration_ms":    r.DurationMS,
		})
	}
	c.JSON(http.StatusOK, gin.H{"verifications": out})
}

func getVerificationHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var rec models.Verification
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&rec).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "verification not found"})
		return
	}
	var fields []verify.FieldVerification
	_ = json.Unmarshal([]byte(rec.Fields), &fields)
	var claims verify.Claims
	_ = json.Unmarshal([]byte(rec.Claims), &claims)
	c.JSON(http.StatusOK, gin.H{
		"id":             rec.ID,
		"created_at":     rec.CreatedAt,
		"image_name":     rec.ImageName,
		"overall_status": rec.OverallStatus,
		"claims":         claims,
		"fields":         fields,
		"raw_text":       rec.RawText,
		"duration_ms":    rec.DurationMS,
	})
}
