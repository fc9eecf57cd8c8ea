package revision

import (
	"fmt"
	"strings"
	"time"

	"github.com/epetitpas/aischool/internal/models"
)

// BuildContent renders the markdown body of a revision sheet from the selected
// questions, with their explanation steps and a quiz answer key.
func BuildContent(questions []*models.AIQuestion, title, subject, gradeLevel string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Matière :** %s  \n", subject)
	fmt.Fprintf(&b, "**Niveau :** %s  \n", gradeLevel)
	fmt.Fprintf(&b, "**Nombre de questions :** %d  \n", len(questions))
	fmt.Fprintf(&b, "**Généré le :** %s  \n", time.Now().Format("02/01/2006"))
	b.WriteString("**Plateforme :** E-petitpas IA School  \n\n---\n\n")
	b.WriteString("## Résumé des Questions et Réponses\n")

	for i, q := range questions {
		fmt.Fprintf(&b, "\n### Question %d: %s\n\n", i+1, q.Subject)
		fmt.Fprintf(&b, "**Question :** %s\n\n", q.QuestionText)
		fmt.Fprintf(&b, "**Réponse :**\n%s\n", q.AIResponse)

		steps := q.Steps.Data().Steps
		if len(steps) > 0 {
			b.WriteString("\n**Étapes détaillées :**\n")
			for j, step := range steps {
				fmt.Fprintf(&b, "%d. **%s**  \n   %s\n\n", j+1, step.Title, step.Content)
			}
		}

		quiz := q.Quiz.Data().Questions
		if len(quiz) > 0 {
			b.WriteString("\n**Quiz de révision :**\n")
			for j, item := range quiz {
				fmt.Fprintf(&b, "**Q%d :** %s  \n", j+1, item.Question)
				for k, opt := range item.Options {
					fmt.Fprintf(&b, "   %c) %s  \n", 'a'+k, opt)
				}
				if item.CorrectAnswer >= 0 && item.CorrectAnswer < len(item.Options) {
					fmt.Fprintf(&b, "\n   *Réponse : %c)*\n\n", 'a'+item.CorrectAnswer)
				}
			}
		}

		b.WriteString("\n---\n")
	}

	b.WriteString(`
## Notes de révision

- [ ] Relire toutes les réponses
- [ ] Refaire les quiz sans regarder les réponses
- [ ] Identifier les points à approfondir
- [ ] Poser des questions complémentaires si nécessaire
`)

	return b.String()
}
