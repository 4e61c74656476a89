package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// flexInt accepts 5 as well as "5"; the frontend sends category ids as
// object keys and form values as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

/*** Categories ***/

func ListCategories(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cs, err := store.ListCategories(c.Request.Context())
		if err != nil {
			abortErr(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"categories": categoryMap(cs),
		})
	}
}

func CategoryQuestions(store Store, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			abortWith(c, http.StatusNotFound)
			return
		}
		ctx := c.Request.Context()
		cat, err := store.GetCategory(ctx, id)
		if err != nil {
			abortErr(c, http.StatusNotFound, err)
			return
		}
		qs, err := store.ListQuestions(ctx, cat.ID)
		if err != nil {
			abortErr(c, http.StatusNotFound, err)
			return
		}
		page := paginate(qs, parsePage(c.Query("page")), pageSize)
		if len(page) == 0 {
			abortWith(c, http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"questions":        questionDTOs(page),
			"total_questions":  len(qs),
			"categories":       cat.Type,
			"current_category": cat.Type,
		})
	}
}

/*** Questions ***/

func ListQuestions(store Store, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		qs, err := store.ListQuestions(ctx, 0)
		if err != nil {
			abortErr(c, http.StatusInternalServerError, err)
			return
		}
		page := paginate(qs, parsePage(c.Query("page")), pageSize)
		if len(page) == 0 {
			abortWith(c, http.StatusNotFound)
			return
		}
		cs, err := store.ListCategories(ctx)
		if err != nil {
			abortErr(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"questions":        questionDTOs(page),
			"total_questions":  len(qs),
			"categories":       categoryMap(cs),
			"current_category": nil,
		})
	}
}

func GetQuestion(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			abortWith(c, http.StatusNotFound)
			return
		}
		q, err := store.GetQuestion(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ErrQuestionNotFound) {
				abortWith(c, http.StatusNotFound)
				return
			}
			abortErr(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "question": q.DTO()})
	}
}

// DeleteQuestion answers 422 for every failure, including an unknown id.
func DeleteQuestion(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			abortWith(c, http.StatusNotFound)
			return
		}
		if err := store.DeleteQuestion(c.Request.Context(), id); err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Question successfully deleted",
			"delete_id": id,
		})
	}
}

type NewQuestionReq struct {
	Question   string  `json:"question" validate:"required"`
	Answer     string  `json:"answer" validate:"required"`
	Difficulty flexInt `json:"difficulty" validate:"required,min=1"`
	Category   flexInt `json:"category" validate:"required,min=1"`
}

func CreateQuestion(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NewQuestionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		req.Question = strings.TrimSpace(req.Question)
		req.Answer = strings.TrimSpace(req.Answer)
		if err := validate.Struct(req); err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}

		q := Question{
			Text:       req.Question,
			Answer:     req.Answer,
			Difficulty: int(req.Difficulty),
			CategoryID: int(req.Category),
		}
		if err := store.CreateQuestion(c.Request.Context(), &q); err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Question successfully created!",
			"created": q.ID,
		})
	}
}

type SearchReq struct {
	SearchTerm string `json:"searchTerm"`
}

func SearchQuestions(store Store, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SearchReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		if req.SearchTerm == "" {
			abortWith(c, http.StatusUnprocessableEntity)
			return
		}

		ctx := c.Request.Context()
		qs, err := store.SearchQuestions(ctx, req.SearchTerm)
		if err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		page := paginate(qs, parsePage(c.Query("page")), pageSize)
		if len(page) == 0 {
			abortWith(c, http.StatusNotFound)
			return
		}
		total, err := store.CountQuestions(ctx)
		if err != nil {
			abortErr(c, http.StatusUnprocessableEntity, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"questions":        questionDTOs(page),
			"total_questions":  total,
			"current_category": nil,
		})
	}
}

/*** Quiz ***/

type QuizCategory struct {
	Type string   `json:"type"`
	ID   *flexInt `json:"id" validate:"required"`
}

type PlayReq struct {
	PreviousQuestions *[]int        `json:"previous_questions" validate:"required"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

func PlayQuiz(sel *QuizSelector) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlayReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abortErr(c, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			abortErr(c, http.StatusBadRequest, err)
			return
		}

		q, err := sel.SelectNext(c.Request.Context(), int(*req.QuizCategory.ID), *req.PreviousQuestions)
		if err != nil {
			if errors.Is(err, ErrNoEligibleQuestion) {
				abortWith(c, http.StatusNotFound)
				return
			}
			abortErr(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"question": q.DTO(),
		})
	}
}
