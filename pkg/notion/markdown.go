package notion

import (
	"strings"

	"github.com/tidwall/gjson"
)

// RenderBlocks converts a block sequence to Markdown. Non-empty block
// renderings are joined by a blank line; a block that yields nothing
// contributes no separator.
func RenderBlocks(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if text := renderBlock(block); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderBlock maps one block to its Markdown form. Unsupported block
// kinds render to the empty string and are dropped by the caller.
func renderBlock(block Block) string {
	blockType := block.Get("type").String()

	switch blockType {
	case "paragraph":
		return inlineText(block.Get("paragraph.rich_text"))
	case "heading_1":
		if text := inlineText(block.Get("heading_1.rich_text")); text != "" {
			return "# " + text
		}
	case "heading_2":
		if text := inlineText(block.Get("heading_2.rich_text")); text != "" {
			return "## " + text
		}
	case "heading_3":
		if text := inlineText(block.Get("heading_3.rich_text")); text != "" {
			return "### " + text
		}
	case "bulleted_list_item":
		if text := inlineText(block.Get("bulleted_list_item.rich_text")); text != "" {
			return "- " + text
		}
	case "numbered_list_item":
		// Every item renders with a literal "1."; Hugo's Markdown
		// renderer re-numbers the list.
		if text := inlineText(block.Get("numbered_list_item.rich_text")); text != "" {
			return "1. " + text
		}
	case "code":
		text := inlineText(block.Get("code.rich_text"))
		if text == "" {
			return ""
		}
		language := block.Get("code.language").String()
		return "```" + language + "\n" + text + "\n```"
	case "image":
		imageURL := block.Get("image.file.url").String()
		if imageURL == "" {
			imageURL = block.Get("image.external.url").String()
		}
		if imageURL != "" {
			return "![image](" + imageURL + ")"
		}
	}
	return ""
}

// inlineText flattens a rich_text array to Markdown. Annotations wrap
// the fragment in a fixed order so output stays deterministic: link,
// bold, italic, strikethrough, code.
func inlineText(richText gjson.Result) string {
	var sb strings.Builder
	for _, item := range richText.Array() {
		content := item.Get("text.content").String()
		if link := item.Get("text.link.url").String(); link != "" {
			content = "[" + content + "](" + link + ")"
		}

		annotations := item.Get("annotations")
		if annotations.Get("bold").Bool() {
			content = "**" + content + "**"
		}
		if annotations.Get("italic").Bool() {
			content = "*" + content + "*"
		}
		if annotations.Get("strikethrough").Bool() {
			content = "~~" + content + "~~"
		}
		if annotations.Get("code").Bool() {
			content = "`" + content + "`"
		}

		sb.WriteString(content)
	}
	return sb.String()
}
