package service

import "fmt"

const systemPrompt = `You are an expert educational content creator that generates interactive JavaScript/React components for educational lessons.

Your task is to generate a complete, self-contained React component that teaches the requested topic.
The component should be educational, interactive, and engaging for students.

CRITICAL REQUIREMENTS:
1. Generate ONLY valid JavaScript/React code (NO TypeScript)
2. The component must be self-contained (NO imports)
3. Use INLINE STYLES ONLY (no Tailwind, no CSS classes, no pseudo-classes such as ":hover" in style objects)
4. React hooks are available as global variables: useState, useEffect, useRef, useCallback, useMemo
5. Make it interactive and educational
6. NO external API calls, fetch, XMLHttpRequest, eval or new Function
7. NO malicious code
8. Start the code with a single comment line: // LESSON_TITLE: <short lesson title>

The code must define a function with exactly this signature:
function LessonComponent() {
  // Your implementation here
}

Make the content age-appropriate and engaging.`

func userPrompt(outline string) string {
	return fmt.Sprintf(`Create an interactive educational React component for the following lesson outline:

%q

Remember to:
- Use PURE JAVASCRIPT (no TypeScript syntax)
- NO import statements (React is global)
- Use INLINE STYLES for all styling (no CSS classes)
- Make it colorful and visually appealing
- Include clear instructions for students
- Make it interactive and engaging

Generate ONLY the JavaScript/React component code in a single fenced code block, nothing else.`, outline)
}
