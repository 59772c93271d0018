package handlers

import (
	"context"
	"net/http"
	"time"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Course     *CourseHandler
	Lesson     *LessonHandler
	Progress   *ProgressHandler
	Forum      *ForumHandler
	Submission *SubmissionHandler
	Classifier *ClassifierHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	UploadDir      string
	// Ping backs /healthz.
	Ping func(ctx context.Context) error
}

func NewRouter(h Handlers, opts RouterOptions, authn middleware.Authenticator, limiter *middleware.RateLimiter, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	config := cors.DefaultConfig()
	config.AllowOrigins = opts.AllowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	if opts.UploadDir != "" {
		r.Static(storage.PublicPrefix, opts.UploadDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.AuthMiddleware(authn)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Limit("register", 10, 1*time.Minute), h.Auth.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		user := api.Group("/user")
		user.Use(authed)
		{
			user.GET("/profile", h.User.GetProfile)
			user.PUT("/profile", h.User.UpdateProfile)
			user.POST("/by-email", h.User.ByEmail)

			admin := user.Group("", middleware.RequireRole(domain.RoleAdmin))
			admin.GET("", h.User.List)
			admin.POST("", h.User.Create)
			admin.PUT("/:id", h.User.Update)
			admin.DELETE("/:id", h.User.Delete)
		}

		course := api.Group("/course")
		course.Use(authed)
		{
			course.POST("/professor", h.Course.Create)
			course.GET("/professor", h.Course.ListForProfessor)
			course.GET("/student", h.Course.ListForStudent)
			course.GET("/:id", h.Course.Get)
			course.PATCH("/:id", h.Course.Update)
			course.DELETE("/:id", h.Course.Delete)
			course.POST("/:id/enroll", h.Course.Enroll)
			course.DELETE("/:id/enroll/:studentId", h.Course.Unenroll)
			course.PATCH("/:id/grade", h.Course.Grade)

			course.POST("/:id/lesson", h.Lesson.Create)
			course.GET("/:id/lesson/:lessonId", h.Lesson.Get)
			course.PATCH("/:id/lesson/:lessonId", h.Lesson.Update)
			course.DELETE("/:id/lesson/:lessonId", h.Lesson.Delete)
			course.POST("/:id/lesson/:lessonId/step/:stepId/upload", h.Lesson.UploadStepFiles)
			course.POST("/:id/lesson/:lessonId/assignment", h.Lesson.SetAssignment)
			course.DELETE("/:id/lesson/:lessonId/assignment", h.Lesson.DeleteAssignment)

			course.POST("/:id/lesson/:lessonId/progress", h.Progress.Record)
			course.GET("/:id/lesson/:lessonId/progress", h.Progress.Get)
			course.POST("/:id/lesson/:lessonId/complete", h.Progress.Complete)
		}

		forum := api.Group("/discussion-forum")
		{
			forum.GET("/discussions", h.Forum.ListDiscussions)
			forum.GET("/discussions/:id", h.Forum.GetDiscussion)
			forum.GET("/comments/:discussionId", h.Forum.Thread)

			w := forum.Group("", authed)
			w.POST("/discussions", h.Forum.CreateDiscussion)
			w.PUT("/discussions/:id", h.Forum.UpdateDiscussion)
			w.DELETE("/discussions/:id", h.Forum.DeleteDiscussion)
			w.POST("/discussions/:id/like", h.Forum.ReactDiscussion(domain.ReactionLike))
			w.POST("/discussions/:id/dislike", h.Forum.ReactDiscussion(domain.ReactionDislike))
			w.POST("/discussions/:id/comments", h.Forum.CreateDiscussionComment)
			w.POST("/comments", h.Forum.CreateComment)
			w.PUT("/comments/:id", h.Forum.EditComment)
			w.DELETE("/comments/:id", h.Forum.DeleteComment)
			w.POST("/comments/:id/like", h.Forum.ReactComment(domain.ReactionLike))
			w.POST("/comments/:id/dislike", h.Forum.ReactComment(domain.ReactionDislike))
			w.POST("/upload", h.Forum.Upload)
		}

		submission := api.Group("/submission")
		submission.Use(authed)
		{
			submission.POST("", h.Submission.Create)
			submission.GET("/course/:courseId", h.Submission.ListByCourse)
			submission.GET("/course/:courseId/student", h.Submission.MyWorks)
			submission.GET("/:id", h.Submission.Get)
			submission.PUT("/:id", h.Submission.Update)
			submission.DELETE("/:id", h.Submission.Delete)
			submission.PUT("/:id/grade/:studentId", h.Submission.Grade)
			submission.POST("/:id/submit", h.Submission.Submit)
			submission.POST("/:id/unsubmit", h.Submission.Unsubmit)
		}

		api.POST("/cnn-ai/predict", h.Classifier.Predict)
	}

	return r
}
