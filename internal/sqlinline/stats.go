package sqlinline

const QStatsSummary = `--sql 3968e109-106a-4e5b-89aa-4dc4da68a5d7
select
  (select count(*) from projects) as total_projects,
  (select count(*) from donations where status = 'completed') as completed_donations,
  (select count(*) from donations where status = 'pending') as pending_donations,
  (select count(*) from donations where status = 'failed') as failed_donations,
  (select coalesce(sum(amount), 0) from donations where status = 'completed') as total_raised;
`
