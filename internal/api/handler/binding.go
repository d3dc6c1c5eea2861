package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindingFor accepts both JSON bodies and HTML form posts.
func bindingFor(c *gin.Context) binding.Binding {
	return binding.Default(c.Request.Method, c.ContentType())
}

// credentialsBody has no required tags: blank fields are the page's to report.
type credentialsBody struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
