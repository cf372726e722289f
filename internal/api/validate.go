package api

func validationBody(problems []string) map[string]interface{} {
	return map[string]interface{}{
		"error":   "invalid task",
		"details": problems,
	}
}
